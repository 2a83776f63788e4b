package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDisk_RoundTrip(t *testing.T) {
	ctx := context.Background()
	d, err := NewLocalDisk(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "abc", strings.NewReader("jpeg")))

	rc, err := d.Open(ctx, "abc")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "jpeg", string(data))

	require.NoError(t, d.Delete(ctx, "abc"))
	require.NoError(t, d.Delete(ctx, "abc"), "deleting twice is not an error")

	_, err = d.Open(ctx, "abc")
	assert.True(t, IsNotExist(err))
}

func TestLocalDisk_StaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	d, err := NewLocalDisk(root)
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "../../escape", strings.NewReader("x")))
	_, err = os.Stat(filepath.Join(root, "escape"))
	assert.NoError(t, err, "traversal is clamped to the root")

	assert.Error(t, d.Put(ctx, "", strings.NewReader("x")))
}

func TestManager_RegisterAndDefault(t *testing.T) {
	d, err := NewLocalDisk(t.TempDir())
	require.NoError(t, err)
	RegisterDisk("local", d)

	assert.Same(t, d, Default())
	assert.Panics(t, func() { Use("nope") })
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, _ := io.ReadAll(in.Body)
	f.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Disk_PrefixesKeys(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	d := &s3Disk{client: fake, bucket: "b", prefix: "uploads"}

	require.NoError(t, d.Put(ctx, "abc", strings.NewReader("jpeg")))
	assert.Contains(t, fake.objects, "uploads/abc")

	rc, err := d.Open(ctx, "abc")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "jpeg", string(data))

	require.NoError(t, d.Delete(ctx, "abc"))
	assert.NotContains(t, fake.objects, "uploads/abc")

	_, err = d.Open(ctx, "abc")
	assert.True(t, IsNotExist(err))
}

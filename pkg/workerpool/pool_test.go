package workerpool_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/nftlisting/pkg/storage"
	"github.com/shashiranjanraj/nftlisting/pkg/workerpool"
)

// uploads stores n pictures on a fresh local disk and returns their names.
func uploads(t *testing.T, n int) (*storage.LocalDisk, []string) {
	t.Helper()
	disk, err := storage.NewLocalDisk(t.TempDir())
	require.NoError(t, err)

	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("picture%03d", i)
		require.NoError(t, disk.Put(context.Background(), names[i], strings.NewReader("jpeg")))
	}
	return disk, names
}

func prune(disk storage.Disk, name string) func() {
	return func() { _ = disk.Delete(context.Background(), name) }
}

func stored(t *testing.T, disk *storage.LocalDisk) []string {
	t.Helper()
	entries, err := os.ReadDir(disk.Root())
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestPool_PrunesEverySubmittedPicture(t *testing.T) {
	disk, names := uploads(t, 100)
	pool := workerpool.New(64)

	for _, name := range names {
		require.NoError(t, pool.Submit(prune(disk, name)))
	}
	pool.Shutdown()

	assert.Empty(t, stored(t, disk))
	assert.Zero(t, pool.Pending())
}

func TestPool_FullQueueDropsPrune(t *testing.T) {
	disk, names := uploads(t, 4)
	pool := workerpool.New(1)

	started, release := make(chan struct{}), make(chan struct{})
	require.NoError(t, pool.Submit(func() {
		close(started)
		<-release
		prune(disk, names[0])()
	}))
	<-started

	// One worker busy, two queue slots.
	require.NoError(t, pool.Submit(prune(disk, names[1])))
	require.NoError(t, pool.Submit(prune(disk, names[2])))
	assert.ErrorIs(t, pool.Submit(prune(disk, names[3])), workerpool.ErrPoolFull)

	close(release)
	pool.Shutdown()

	assert.Equal(t, []string{names[3]}, stored(t, disk), "only the dropped picture is left")
}

func TestPool_ClosedRejectsPrune(t *testing.T) {
	disk, names := uploads(t, 1)
	pool := workerpool.New(2)
	pool.Shutdown()
	pool.Shutdown()

	assert.ErrorIs(t, pool.Submit(prune(disk, names[0])), workerpool.ErrPoolClosed)
	assert.FileExists(t, filepath.Join(disk.Root(), names[0]))
}

func TestPool_PanickingPruneDoesNotStopOthers(t *testing.T) {
	disk, names := uploads(t, 1)
	pool := workerpool.New(1)

	var broken storage.Disk // a driver that was never configured
	require.NoError(t, pool.Submit(prune(broken, names[0])))
	require.NoError(t, pool.Submit(prune(disk, names[0])))
	pool.Shutdown()

	assert.Empty(t, stored(t, disk))
	assert.Zero(t, pool.Pending())
}

func TestPool_PendingDrainsOnShutdown(t *testing.T) {
	disk, names := uploads(t, 2)
	pool := workerpool.New(1)

	release := make(chan struct{})
	require.NoError(t, pool.Submit(func() {
		<-release
		prune(disk, names[0])()
	}))
	require.NoError(t, pool.Submit(prune(disk, names[1])))
	assert.EqualValues(t, 2, pool.Pending())

	close(release)
	pool.Shutdown()

	assert.Empty(t, stored(t, disk))
	assert.Zero(t, pool.Pending())
}

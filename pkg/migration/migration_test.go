package migration

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

type memStore struct{ recs []Record }

func (s *memStore) Applied(context.Context) ([]Record, error) {
	return append([]Record(nil), s.recs...), nil
}

func (s *memStore) Add(_ context.Context, rec Record) error {
	s.recs = append(s.recs, rec)
	return nil
}

func (s *memStore) Remove(_ context.Context, name string) error {
	for i, rec := range s.recs {
		if rec.Name == name {
			s.recs = append(s.recs[:i], s.recs[i+1:]...)
			return nil
		}
	}
	return nil
}

type step struct {
	log  *[]string
	name string
	fail bool
}

func (s step) Up(context.Context, *mongo.Database) error {
	if s.fail {
		return errors.New("boom")
	}
	*s.log = append(*s.log, "up:"+s.name)
	return nil
}

func (s step) Down(context.Context, *mongo.Database) error {
	*s.log = append(*s.log, "down:"+s.name)
	return nil
}

func TestRunner_RunRollbackStatus(t *testing.T) {
	ctx := context.Background()
	var log []string
	store := &memStore{}
	var out bytes.Buffer

	list := []registeredMigration{
		{name: "0002_b", m: step{log: &log, name: "b"}},
		{name: "0001_a", m: step{log: &log, name: "a"}},
	}
	r := newRunner(nil, store, list, &out)

	pending, err := r.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a", "0002_b"}, pending)

	require.NoError(t, r.Run(ctx))
	assert.Equal(t, []string{"up:a", "up:b"}, log)
	require.Len(t, store.recs, 2)
	assert.Equal(t, 1, store.recs[0].Batch)

	out.Reset()
	require.NoError(t, r.Run(ctx))
	assert.Contains(t, out.String(), "Nothing to migrate.")

	// A migration added later lands in batch 2 and is the only one rolled back.
	r = newRunner(nil, store, append(list, registeredMigration{name: "0003_c", m: step{log: &log, name: "c"}}), &out)
	require.NoError(t, r.Run(ctx))
	assert.Equal(t, 2, store.recs[2].Batch)

	log = nil
	require.NoError(t, r.Rollback(ctx))
	assert.Equal(t, []string{"down:c"}, log)
	assert.Len(t, store.recs, 2)

	out.Reset()
	require.NoError(t, r.Status(ctx))
	assert.Contains(t, out.String(), "0003_c")
	assert.Contains(t, out.String(), "Pending")
}

func TestRunner_StopsOnFailure(t *testing.T) {
	ctx := context.Background()
	var log []string
	store := &memStore{}

	r := newRunner(nil, store, []registeredMigration{
		{name: "0001_a", m: step{log: &log, name: "a"}},
		{name: "0002_b", m: step{log: &log, name: "b", fail: true}},
	}, &bytes.Buffer{})

	err := r.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0002_b")
	assert.Len(t, store.recs, 1)
}

func TestRunner_RollbackEmpty(t *testing.T) {
	var out bytes.Buffer
	r := newRunner(nil, &memStore{}, nil, &out)
	require.NoError(t, r.Rollback(context.Background()))
	assert.Contains(t, out.String(), "Nothing to roll back.")
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("applied", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + Collection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "name", Value: "0001_a"}, {Key: "batch", Value: 1}},
		))

		recs, err := NewMongoStore(mt.DB).Applied(context.Background())
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "0001_a", recs[0].Name)
		assert.Equal(t, 1, recs[0].Batch)
	})

	mt.Run("add and remove", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		s := NewMongoStore(mt.DB)
		require.NoError(t, s.Add(context.Background(), Record{Name: "0001_a", Batch: 1}))
		require.NoError(t, s.Remove(context.Background(), "0001_a"))
	})
}

package listeners

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/nftlisting/app/models"
	"github.com/shashiranjanraj/nftlisting/app/services"
	"github.com/shashiranjanraj/nftlisting/pkg/event"
	"github.com/shashiranjanraj/nftlisting/pkg/metrics"
	"github.com/shashiranjanraj/nftlisting/pkg/workerpool"
)

type recordingPruner struct {
	mu    sync.Mutex
	names []string
}

func (r *recordingPruner) PruneImage(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	return nil
}

func TestRegisterPruning(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)

	pool := workerpool.New(1)
	p := &recordingPruner{}
	RegisterPruning(pool, p)

	event.Fire(services.EventNFTUpdated, services.NFTEvent{NFT: models.NFT{Picture: "new"}, Replaced: "old"})
	event.Fire(services.EventNFTUpdated, services.NFTEvent{NFT: models.NFT{Picture: "same"}})
	event.Fire(services.EventNFTDeleted, services.NFTEvent{NFT: models.NFT{Picture: "gone"}})

	pool.Shutdown()
	assert.ElementsMatch(t, []string{"old", "gone"}, p.names)

	before := testutil.ToFloat64(metrics.ImagesPruned.WithLabelValues("closed"))
	event.Fire(services.EventNFTDeleted, services.NFTEvent{NFT: models.NFT{Picture: "late"}})
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ImagesPruned.WithLabelValues("closed")))
}

func TestRegisterMetrics(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)
	RegisterMetrics()

	before := testutil.ToFloat64(metrics.NFTMutations.WithLabelValues("delete"))
	event.Fire(services.EventNFTDeleted, services.NFTEvent{})
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.NFTMutations.WithLabelValues("delete")))
}

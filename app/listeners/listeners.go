// Package listeners wires reactions to catalog events: mutation metrics and,
// when enabled, removal of images that no record references any more.
package listeners

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/nftlisting/app/services"
	"github.com/shashiranjanraj/nftlisting/pkg/event"
	"github.com/shashiranjanraj/nftlisting/pkg/logger"
	"github.com/shashiranjanraj/nftlisting/pkg/metrics"
	"github.com/shashiranjanraj/nftlisting/pkg/workerpool"
)

const pruneTimeout = 30 * time.Second

// Pruner deletes a stored image by name.
type Pruner interface {
	PruneImage(ctx context.Context, name string) error
}

// RegisterMetrics counts NFT mutations.
func RegisterMetrics() {
	for name, op := range map[string]string{
		services.EventNFTCreated: "create",
		services.EventNFTUpdated: "update",
		services.EventNFTDeleted: "delete",
	} {
		op := op
		event.Listen(name, func(interface{}) {
			metrics.NFTMutations.WithLabelValues(op).Inc()
		})
	}
}

// RegisterPruning removes superseded pictures on update and the picture of a
// deleted record, off the request path on pool.
func RegisterPruning(pool *workerpool.Pool, p Pruner) {
	event.Listen(services.EventNFTUpdated, func(payload interface{}) {
		if ev, ok := payload.(services.NFTEvent); ok && ev.Replaced != "" {
			schedule(pool, p, ev.Replaced)
		}
	})
	event.Listen(services.EventNFTDeleted, func(payload interface{}) {
		if ev, ok := payload.(services.NFTEvent); ok && ev.NFT.Picture != "" {
			schedule(pool, p, ev.NFT.Picture)
		}
	})
}

func schedule(pool *workerpool.Pool, p Pruner, name string) {
	err := pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
		defer cancel()

		if err := p.PruneImage(ctx, name); err != nil {
			metrics.ImagesPruned.WithLabelValues("error").Inc()
			logger.Warn("prune image failed", "picture", name, "error", err)
			return
		}
		metrics.ImagesPruned.WithLabelValues("ok").Inc()
		logger.Debug("pruned image", "picture", name)
	})
	if err != nil {
		outcome := "dropped"
		if errors.Is(err, workerpool.ErrPoolClosed) {
			outcome = "closed"
		}
		metrics.ImagesPruned.WithLabelValues(outcome).Inc()
		logger.Warn("prune image not scheduled", "picture", name, "error", err)
	}
}

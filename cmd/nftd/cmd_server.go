package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/nftlisting/app/listeners"
	"github.com/shashiranjanraj/nftlisting/app/repositories"
	"github.com/shashiranjanraj/nftlisting/app/routes"
	"github.com/shashiranjanraj/nftlisting/app/services"
	"github.com/shashiranjanraj/nftlisting/config"
	"github.com/shashiranjanraj/nftlisting/database/seeders"
	"github.com/shashiranjanraj/nftlisting/internal/kernel"
	"github.com/shashiranjanraj/nftlisting/internal/server"
	"github.com/shashiranjanraj/nftlisting/pkg/cache"
	"github.com/shashiranjanraj/nftlisting/pkg/database"
	"github.com/shashiranjanraj/nftlisting/pkg/logger"
	"github.com/shashiranjanraj/nftlisting/pkg/middleware"
	"github.com/shashiranjanraj/nftlisting/pkg/storage"
	"github.com/shashiranjanraj/nftlisting/pkg/workerpool"
)

const limiterIdle = 10 * time.Minute

// nftd serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// nftd route:list: print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		k := kernel.NewHTTPKernel(routes.Services{}, nil)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range k.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

type stores struct {
	users  services.UserStore
	nfts   services.NFTStore
	health kernel.HealthCheck
	close  func(context.Context)
}

func serve(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}
	logger.Init(config.AppEnv())

	st, err := openStores(ctx)
	if err != nil {
		return err
	}
	defer st.close(context.Background())

	if err := storage.Connect(ctx); err != nil {
		return err
	}
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache: disabled", "error", err)
	}
	defer cache.Close()

	auth := services.NewAuthService(st.users)
	catalog := services.NewCatalogService(st.nfts, st.users, storage.Default(),
		services.WithCacheTTL(config.CacheTTL()))

	listeners.RegisterMetrics()
	if config.StoragePruneReplaced() {
		pool := workerpool.New(4)
		defer func() {
			logger.Info("workerpool: draining image pruning", "pending", pool.Pending())
			pool.Shutdown()
		}()
		listeners.RegisterPruning(pool, catalog)
	}

	limiter := middleware.NewIPLimiter(config.AuthRateLimit())
	go sweep(ctx, limiter)

	k := kernel.NewHTTPKernel(routes.Services{
		Auth:        auth,
		Catalog:     catalog,
		AuthLimiter: limiter,
	}, st.health)

	return server.Start(ctx, ":"+config.AppPort(), k.Handler())
}

func openStores(ctx context.Context) (*stores, error) {
	if config.DatabaseDriver() == "memory" {
		st := &stores{
			users: repositories.NewMemoryUserRepository(),
			nfts:  repositories.NewMemoryNFTRepository(),
			close: func(context.Context) {},
		}
		if err := seeders.RunAll(ctx, seeders.Stores{Users: st.users}, os.Stdout); err != nil {
			return nil, err
		}
		logger.Warn("database: using in-memory stores, data is lost on exit")
		return st, nil
	}

	if err := database.Connect(ctx); err != nil {
		return nil, err
	}

	closeLog := func() {}
	if config.LogToMongo() {
		h := logger.NewMongoHandler(ctx, database.DB.Collection("logs"), slog.LevelInfo)
		logger.Init(config.AppEnv(), h)
		closeLog = h.Close
	}

	return &stores{
		users: repositories.NewUserRepository(database.DB),
		nfts:  repositories.NewNFTRepository(database.DB),
		health: func(ctx context.Context) error {
			return database.Client.Ping(ctx, nil)
		},
		close: func(ctx context.Context) {
			closeLog()
			if err := database.Disconnect(ctx); err != nil {
				logger.Error("database: disconnect failed", "error", err)
			}
		},
	}, nil
}

func sweep(ctx context.Context, l *middleware.IPLimiter) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Sweep(limiterIdle)
			logger.Debug("rate limiter swept", "clients", l.Size())
		}
	}
}

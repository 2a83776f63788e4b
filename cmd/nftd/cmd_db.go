package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/nftlisting/app/repositories"
	"github.com/shashiranjanraj/nftlisting/config"
	"github.com/shashiranjanraj/nftlisting/database/seeders"
	"github.com/shashiranjanraj/nftlisting/pkg/database"
	"github.com/shashiranjanraj/nftlisting/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect(ctx)
}

// withDB runs fn against an open connection and disconnects afterwards.
func withDB(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	ctx := cmd.Context()
	if err := bootDB(ctx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background())
	return fn(ctx)
}

// nftd migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context) error {
			fmt.Println("Running migrations…")
			return migration.New(database.DB).Run(ctx)
		})
	},
}

// nftd migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context) error {
			fmt.Println("Rolling back last batch…")
			return migration.New(database.DB).Rollback(ctx)
		})
	},
}

// nftd migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context) error {
			return migration.New(database.DB).Status(ctx)
		})
	},
}

// nftd seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd, func(ctx context.Context) error {
			fmt.Println("Running seeders…")
			s := seeders.Stores{Users: repositories.NewUserRepository(database.DB)}
			return seeders.RunAll(ctx, s, os.Stdout)
		})
	},
}

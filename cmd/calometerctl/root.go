package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/wawanmain22/CaloMeter/internal/adapters/repository"
	"github.com/wawanmain22/CaloMeter/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "calometerctl",
	Short:         "Administrative tasks for the CaloMeter API",
	Long:          "calometerctl runs schema migrations and offline calorie/BMI calculations.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withDB opens the database configured in the environment for one command.
func withDB(ctx context.Context, run func(context.Context, *sqlx.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := repository.Open(ctx, cfg.DB.Driver, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	return run(ctx, db)
}

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/fieldlog/pkg/api"
	pkgdb "github.com/unowned-ai/fieldlog/pkg/db"
	"github.com/unowned-ai/fieldlog/pkg/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diary over HTTP",
	Long: `Start an HTTP server exposing the diary and the weather feed as a JSON API.

Routes:
  GET    /health
  GET    /api/v1/weather/current
  POST   /api/v1/entries
  GET    /api/v1/entries?user_id=...&limit=...
  GET    /api/v1/entries/:id
  DELETE /api/v1/entries/:id

For SQLite databases the WAL is checkpointed every CHECKPOINT_INTERVAL while serving.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		dbConn, dsn, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		reader, err := newWeatherReader()
		if err != nil {
			return err
		}

		sched := scheduler.New(dbConn, cfg.CheckpointInterval)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		app := api.NewApp(api.Deps{
			DB:       dbConn,
			Reader:   reader,
			Location: cfg.Location.Name,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Printf("serve: listening on :%s (db %s)", port, pkgdb.RedactDSN(dsn))
			errCh <- app.Listen(":" + port)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Println("serve: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func initServeCmd() {
	serveCmd.Flags().String("port", cfg.Port, "Port to listen on (default: PORT, then 8080)")
}

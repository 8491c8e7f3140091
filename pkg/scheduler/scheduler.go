// Package scheduler runs periodic database maintenance while the server is up.
package scheduler

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	pkgdb "github.com/unowned-ai/fieldlog/pkg/db"
)

const checkpointStatement = "PRAGMA wal_checkpoint(PASSIVE);"

// Scheduler periodically checkpoints the SQLite write-ahead log so it does
// not grow without bound under a long-running server.
type Scheduler struct {
	scheduler *gocron.Scheduler
	db        *sql.DB
	interval  time.Duration
}

// New creates a new Scheduler.
func New(db *sql.DB, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		db:        db,
		interval:  interval,
	}
}

// Start schedules the checkpoint job. PostgreSQL databases need no checkpointing
// and nothing is scheduled for them.
func (s *Scheduler) Start() error {
	if pkgdb.DialectOf(s.db) != pkgdb.SQLite {
		log.Println("scheduler: database is not SQLite; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().WaitForSchedule().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := Checkpoint(ctx, s.db); err != nil {
			log.Printf("scheduler: WAL checkpoint failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Checkpoint copies committed WAL frames back into the main database file
// without blocking readers or writers.
func Checkpoint(ctx context.Context, db *sql.DB) error {
	var busy, logFrames, checkpointed int
	if err := db.QueryRowContext(ctx, checkpointStatement).Scan(&busy, &logFrames, &checkpointed); err != nil {
		return err
	}
	log.Printf("scheduler: WAL checkpoint done (busy=%d, frames=%d, checkpointed=%d)", busy, logFrames, checkpointed)
	return nil
}

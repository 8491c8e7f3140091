package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	pkgdb "github.com/unowned-ai/fieldlog/pkg/db"
)

func TestCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldlog.db")
	db, err := pkgdb.OpenDBConnection(path, true, "NORMAL")
	if err != nil {
		t.Fatalf("OpenDBConnection failed: %v", err)
	}
	defer db.Close()

	if err := pkgdb.InitializeSchema(db, pkgdb.TargetSchemaVersion); err != nil {
		t.Fatalf("InitializeSchema failed: %v", err)
	}

	if err := Checkpoint(context.Background(), db); err != nil {
		t.Errorf("Checkpoint failed: %v", err)
	}
}

func TestStartStop(t *testing.T) {
	db, err := pkgdb.OpenDBConnection(":memory:", false, "NORMAL")
	if err != nil {
		t.Fatalf("OpenDBConnection failed: %v", err)
	}
	defer db.Close()

	s := New(db, time.Hour)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !s.scheduler.IsRunning() {
		t.Errorf("Expected the scheduler to be running")
	}
	if got := len(s.scheduler.Jobs()); got != 1 {
		t.Errorf("Expected one scheduled job, got %d", got)
	}
	s.Stop()
	if s.scheduler.IsRunning() {
		t.Errorf("Expected the scheduler to be stopped")
	}
}

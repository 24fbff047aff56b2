package store

import (
	"testing"

	"tidynest/internal/database"
	"tidynest/internal/model"
)

func setupBackupTestDB(t *testing.T) *BackupStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBackupStore(db)
}

func TestBackupStatusLifecycle(t *testing.T) {
	bs := setupBackupTestDB(t)

	record, err := bs.Create("snapshot.db.enc", "snapshot.db.enc")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if record.Status != model.BackupStatusPending {
		t.Errorf("initial status = %q, want %q", record.Status, model.BackupStatusPending)
	}

	if err := bs.MarkUploading(record.ID); err != nil {
		t.Fatalf("MarkUploading() error = %v", err)
	}
	got, err := bs.GetByID(record.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != model.BackupStatusUploading {
		t.Errorf("status after upload start = %q, want %q", got.Status, model.BackupStatusUploading)
	}

	if err := bs.MarkCompleted(record.ID, 4096); err != nil {
		t.Fatalf("MarkCompleted() error = %v", err)
	}
	got, err = bs.GetByID(record.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != model.BackupStatusCompleted {
		t.Errorf("final status = %q, want %q", got.Status, model.BackupStatusCompleted)
	}
	if got.SizeBytes != 4096 {
		t.Errorf("size = %d, want 4096", got.SizeBytes)
	}
	if got.CompletedAt == nil {
		t.Error("completed_at not set")
	}
}

func TestBackupMarkFailed(t *testing.T) {
	bs := setupBackupTestDB(t)

	record, err := bs.Create("snapshot.db.enc", "snapshot.db.enc")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := bs.MarkFailed(record.ID, "upload refused"); err != nil {
		t.Fatalf("MarkFailed() error = %v", err)
	}
	got, err := bs.GetByID(record.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != model.BackupStatusFailed {
		t.Errorf("status = %q, want %q", got.Status, model.BackupStatusFailed)
	}
	if got.ErrorMessage != "upload refused" {
		t.Errorf("error_message = %q", got.ErrorMessage)
	}
}

package journal

import (
	"testing"
	"time"

	"github.com/kb-labs/setup-engine/internal/fsops"
	"github.com/kb-labs/setup-engine/operation"
)

func testEntry(id string) operation.Entry {
	content := "demo"
	return operation.Entry{
		Operation: operation.Operation{Kind: operation.KindFile, File: &operation.FileOperation{
			Action: operation.FileActionEnsure, Path: id + ".txt", Content: &content,
		}},
		Metadata: operation.Metadata{ID: id},
	}
}

func TestBeforeAfterOperation(t *testing.T) {
	j := New(NewFakeClock(time.Unix(100, 0)))

	e := j.BeforeOperation(testEntry("file-1"), false, nil)
	j.AfterOperation(e, true, []byte("demo"), "/backups/1-file-1.bak")

	entries := j.GetEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.Before.Exists {
		t.Error("expected before snapshot to report exists=false")
	}
	if got.After == nil || !got.After.Exists || got.After.Content != "demo" {
		t.Errorf("after snapshot = %#v", got.After)
	}
	if got.BackupPath != "/backups/1-file-1.bak" {
		t.Errorf("backupPath = %q", got.BackupPath)
	}
}

func TestGetEntriesReturnsDeepCopy(t *testing.T) {
	j := New(NewFakeClock(time.Unix(0, 0)))
	e := j.BeforeOperation(testEntry("file-1"), false, nil)
	j.AfterOperation(e, true, []byte("demo"), "")

	entries := j.GetEntries()
	entries[0].Operation.Metadata.ID = "mutated"

	fresh := j.GetEntries()
	if fresh[0].Operation.Metadata.ID != "file-1" {
		t.Error("mutating a returned entry should not affect the journal's own history")
	}
}

func TestSnapshotTruncation(t *testing.T) {
	data := make([]byte, 10)
	for i := range data {
		data[i] = 'a'
	}

	snap := NewSnapshot(true, data, 5)
	if snap.Content != "<truncated 10 bytes>" {
		t.Errorf("content = %q, want truncation placeholder", snap.Content)
	}
	if snap.Checksum == "" {
		t.Error("expected checksum to still be computed for truncated content")
	}
}

func TestPersistAndLoadRoundTrip(t *testing.T) {
	j := New(NewFakeClock(time.Unix(1700000000, 0)))
	e := j.BeforeOperation(testEntry("file-1"), false, nil)
	j.AfterOperation(e, true, []byte("demo"), "")

	fs := fsops.NewMemFS()
	path, err := Persist(j, fs, "/backups")
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if path == "" {
		t.Fatal("expected a non-empty log path")
	}
	if j.GetLogPath() != path {
		t.Errorf("GetLogPath() = %q, want %q", j.GetLogPath(), path)
	}

	runID, entries, err := Load(fs, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if runID != j.RunID {
		t.Errorf("runID = %q, want %q", runID, j.RunID)
	}
	if len(entries) != 1 || entries[0].Operation.Metadata.ID != "file-1" {
		t.Errorf("entries = %#v", entries)
	}
}

func TestPersistIsNoOpWhenEmpty(t *testing.T) {
	j := New(NewFakeClock(time.Unix(0, 0)))
	fs := fsops.NewMemFS()

	path, err := Persist(j, fs, "/backups")
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if path != "" {
		t.Errorf("expected no log path for an empty journal, got %q", path)
	}
}

func TestArtifacts(t *testing.T) {
	j := New(NewFakeClock(time.Unix(0, 0)))
	e := j.BeforeOperation(testEntry("file-1"), true, []byte("old"))
	j.AfterOperation(e, true, []byte("new"), "/backups/1-file-1.bak")

	artifacts := j.GetArtifacts()
	if len(artifacts.Backups) != 1 || artifacts.Backups[0] != "/backups/1-file-1.bak" {
		t.Errorf("backups = %v", artifacts.Backups)
	}
}

package settings

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherFiresOnExternalEdit(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), DefaultFileName))
	seed := Blob{"theme": json.RawMessage(`"dark"`)}
	if err := store.Merge(seed); err != nil {
		t.Fatalf("seed Merge() error: %v", err)
	}

	edited := make(chan struct{}, 1)
	watcher, err := NewWatcher(store, slog.Default(), func() {
		select {
		case edited <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() {
		cancel()
		_ = watcher.Close()
	}()

	if err := store.Merge(Blob{"theme": json.RawMessage(`"light"`)}); err != nil {
		t.Fatalf("external Merge() error: %v", err)
	}

	select {
	case <-edited:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not observe the settings edit")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, DefaultFileName))
	if err := store.Merge(Blob{"theme": json.RawMessage(`"dark"`)}); err != nil {
		t.Fatalf("seed Merge() error: %v", err)
	}

	edited := make(chan struct{}, 1)
	watcher, err := NewWatcher(store, slog.Default(), func() {
		select {
		case edited <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer func() {
		cancel()
		_ = watcher.Close()
	}()

	sibling := NewFileStore(filepath.Join(dir, "other.json"))
	if err := sibling.Merge(Blob{"x": json.RawMessage(`1`)}); err != nil {
		t.Fatalf("sibling Merge() error: %v", err)
	}

	select {
	case <-edited:
		t.Fatal("watcher fired for an unrelated file")
	case <-time.After(750 * time.Millisecond):
	}
}

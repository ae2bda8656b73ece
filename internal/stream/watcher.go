package stream

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/justin4957/logflow-api-analytics/pkg/models"
)

// Snapshot is one complete load of the dataset
type Snapshot struct {
	Path     string
	Records  []models.Record
	LoadedAt time.Time
}

// LoadFunc reads the whole dataset at path
type LoadFunc func(path string) ([]models.Record, error)

// DatasetWatcher reloads a dataset file whenever it changes on disk.
// Each reload replaces the previous record set wholesale.
type DatasetWatcher struct {
	path     string
	load     LoadFunc
	watcher  *fsnotify.Watcher
	out      chan Snapshot
	stopCh   chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex

	// Debounce coalesces bursts of write events into one reload
	Debounce time.Duration
}

// NewDatasetWatcher creates a watcher for path
func NewDatasetWatcher(path string, load LoadFunc) *DatasetWatcher {
	return &DatasetWatcher{
		path:     filepath.Clean(path),
		load:     load,
		out:      make(chan Snapshot, 1),
		stopCh:   make(chan struct{}),
		Debounce: 200 * time.Millisecond,
	}
}

// Start loads the dataset once, emits that snapshot, and then emits a
// new snapshot after every change. The parent directory is watched so
// that editors replacing the file by rename are picked up.
func (w *DatasetWatcher) Start(ctx context.Context) (<-chan Snapshot, error) {
	initial, err := w.reload()
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch dataset directory: %w", err)
	}

	w.mu.Lock()
	w.watcher = watcher
	w.mu.Unlock()

	w.out <- initial
	log.Printf("Started watching dataset: %s", w.path)

	go w.watchLoop(ctx, watcher)
	return w.out, nil
}

func (w *DatasetWatcher) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer func() {
		close(w.out)
		log.Printf("Dataset watcher stopped")
	}()

	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timer.Reset(w.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Watcher error: %v", err)

		case <-timer.C:
			snapshot, err := w.reload()
			if err != nil {
				// A file mid-rewrite or briefly removed; the next event retries
				log.Printf("Dataset reload failed, keeping previous records: %v", err)
				continue
			}
			w.publish(snapshot)
		}
	}
}

func (w *DatasetWatcher) reload() (Snapshot, error) {
	records, err := w.load(w.path)
	if err != nil {
		return Snapshot{}, err
	}
	log.Printf("Dataset loaded: %s (%d records)", w.path, len(records))
	return Snapshot{Path: w.path, Records: records, LoadedAt: time.Now()}, nil
}

// publish replaces an unconsumed snapshot rather than blocking
func (w *DatasetWatcher) publish(s Snapshot) {
	for {
		select {
		case w.out <- s:
			return
		default:
		}
		select {
		case <-w.out:
			log.Printf("Snapshot not consumed, replacing with newer load")
		default:
		}
	}
}

// Stop stops the watcher
func (w *DatasetWatcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stopCh) })

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			return fmt.Errorf("failed to close watcher: %w", err)
		}
		w.watcher = nil
	}
	return nil
}

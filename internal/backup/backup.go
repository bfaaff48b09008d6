// Periodic export of the library to timestamped JSON snapshots. A snapshot
// can be restored by dropping it into the import directory.

package backup

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/okutan/kitaplik-go/internal/shelf"
)

const snapshotPrefix = "library-"

// Service writes library snapshots on a schedule.
type Service struct {
	shelf     *shelf.Adapter
	dir       string
	keep      int
	scheduler *gocron.Scheduler
}

// New creates a backup service. keep bounds the number of retained
// snapshots; values below 1 keep one.
func New(adapter *shelf.Adapter, dir string, keep int) *Service {
	if keep < 1 {
		keep = 1
	}
	return &Service{shelf: adapter, dir: dir, keep: keep}
}

// Start schedules a snapshot every intervalHours hours. An interval of 0
// disables the scheduler.
func (s *Service) Start(intervalHours int) {
	if intervalHours <= 0 {
		log.Println("Backup interval is 0, scheduled backups are disabled.")
		return
	}

	s.scheduler = gocron.NewScheduler(time.UTC)
	s.scheduler.SingletonModeAll()

	_, err := s.scheduler.Every(intervalHours).Hours().Do(func() {
		if _, err := s.Snapshot(); err != nil {
			log.Printf("Scheduled backup failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling backup job: %v", err)
		return
	}

	log.Printf("Scheduling library backup every %d hours.", intervalHours)
	s.scheduler.StartAsync()
}

// Stop halts the scheduler.
func (s *Service) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Snapshot writes the current collection to a timestamped file and prunes
// old snapshots beyond the retention count. It returns the snapshot path.
func (s *Service) Snapshot() (string, error) {
	books, err := s.shelf.LoadAll()
	if err != nil {
		return "", fmt.Errorf("load library for backup: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return "", err
	}

	name := snapshotPrefix + time.Now().UTC().Format("20060102-150405") + ".json"
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup %s: %w", path, err)
	}
	log.Printf("Wrote library backup with %d books to %s", len(books), path)

	if err := s.prune(); err != nil {
		log.Printf("Error pruning old backups: %v", err)
	}
	return path, nil
}

// prune deletes the oldest snapshots beyond the retention count. Snapshot
// names embed their timestamp, so lexical order is chronological.
func (s *Service) prune() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	var snapshots []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && filepath.Ext(name) == ".json" &&
			len(name) > len(snapshotPrefix) && name[:len(snapshotPrefix)] == snapshotPrefix {
			snapshots = append(snapshots, name)
		}
	}
	if len(snapshots) <= s.keep {
		return nil
	}

	sort.Strings(snapshots)
	for _, name := range snapshots[:len(snapshots)-s.keep] {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return err
		}
	}
	return nil
}

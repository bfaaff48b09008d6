// This file implements a drop-folder importer. JSON files placed in the
// import directory are picked up via OS-level file system events, parsed as
// one book record or an array of them, and added to the library through the
// adapter. Files are removed once imported.

package importer

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/okutan/kitaplik-go/internal/models"
	"github.com/okutan/kitaplik-go/internal/shelf"
)

// Service watches the import directory and feeds dropped files through the
// library adapter.
type Service struct {
	shelf         *shelf.Adapter
	dir           string
	watcher       *fsnotify.Watcher
	pending       map[string]bool
	mu            sync.Mutex
	debounceTimer *time.Timer
	debounceDelay time.Duration
	stopChan      chan struct{}
}

// New creates an importer for the given directory. An empty directory
// disables the service.
func New(adapter *shelf.Adapter, dir string) *Service {
	return &Service{
		shelf:         adapter,
		dir:           dir,
		pending:       make(map[string]bool),
		debounceDelay: 2 * time.Second, // Wait for writes to settle before importing
		stopChan:      make(chan struct{}),
	}
}

// Start begins watching the import directory. Files already present are
// imported immediately.
func (s *Service) Start() error {
	if s.dir == "" {
		log.Println("Import directory not configured, importer disabled.")
		return nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return err
	}

	log.Printf("Import watcher started for directory: %s", s.dir)

	s.importExisting()
	go s.processEvents()
	return nil
}

// Stop stops the importer.
func (s *Service) Stop() error {
	close(s.stopChan)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *Service) importExisting() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		log.Printf("Error listing import directory: %v", err)
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			s.importFile(filepath.Join(s.dir, entry.Name()))
		}
	}
}

func (s *Service) processEvents() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
				continue
			}
			s.mu.Lock()
			s.pending[event.Name] = true
			if s.debounceTimer != nil {
				s.debounceTimer.Stop()
			}
			s.debounceTimer = time.AfterFunc(s.debounceDelay, s.flush)
			s.mu.Unlock()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Import watcher error: %v", err)

		case <-s.stopChan:
			return
		}
	}
}

// flush imports every file collected since the last quiet period.
func (s *Service) flush() {
	s.mu.Lock()
	paths := make([]string, 0, len(s.pending))
	for p := range s.pending {
		paths = append(paths, p)
	}
	s.pending = make(map[string]bool)
	s.mu.Unlock()

	for _, path := range paths {
		s.importFile(path)
	}
}

// importFile parses a dropped file and adds its records. Duplicates are
// skipped with a log line; the file is deleted only if every record was
// either added or already present.
func (s *Service) importFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading import file %s: %v", path, err)
		return
	}

	books, err := decodeBooks(data)
	if err != nil {
		log.Printf("Skipping malformed import file %s: %v", path, err)
		return
	}

	failed := 0
	for _, book := range books {
		err := s.shelf.Add(book)
		if err == nil {
			log.Printf("Imported %q from %s", book.Title, filepath.Base(path))
			continue
		}
		var dup *shelf.DuplicateError
		if errors.As(err, &dup) {
			log.Printf("Skipping duplicate %q in %s", book.Title, filepath.Base(path))
			continue
		}
		failed++
		log.Printf("Error importing %q from %s: %v", book.Title, filepath.Base(path), err)
	}

	if failed == 0 {
		if err := os.Remove(path); err != nil {
			log.Printf("Error removing imported file %s: %v", path, err)
		}
	}
}

// decodeBooks accepts either a single record or an array of records.
func decodeBooks(data []byte) ([]*models.Book, error) {
	var books []*models.Book
	if err := json.Unmarshal(data, &books); err == nil {
		return books, nil
	}
	var book models.Book
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, err
	}
	return []*models.Book{&book}, nil
}

// Package progressstore persists per-book reading progress as a single JSON
// object on disk, following the same fail-soft-read / fail-loud-write split
// as the annotation store.
package progressstore

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const progressFileName = "progress.json"

// Progress is the reader's last known position in a book. ChapterIndex and
// CFI locate EPUB positions; PageNum locates PDF positions.
type Progress struct {
	ChapterIndex int     `json:"chapter_index"`
	CFI          string  `json:"cfi,omitempty"`
	PageNum      int     `json:"page_num,omitempty"`
	Percent      float64 `json:"percent,omitempty"`
	UpdatedAt    string  `json:"updated_at,omitempty"`
}

type Store struct {
	booksDir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(booksDir string) *Store {
	return &Store{
		booksDir: booksDir,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *Store) path(bookID string) string {
	return filepath.Join(s.booksDir, bookID, progressFileName)
}

func (s *Store) lock(bookID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[bookID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[bookID] = l
	}
	return l
}

// Get returns the saved progress for a book. A book never opened, or a
// corrupt progress file, yields the zero value and ok=false.
func (s *Store) Get(bookID string) (Progress, bool) {
	l := s.lock(bookID)
	l.Lock()
	defer l.Unlock()

	data, err := os.ReadFile(s.path(bookID))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error loading progress for %s: %v", bookID, err)
		}
		return Progress{}, false
	}

	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("Error loading progress for %s: %v", bookID, err)
		return Progress{}, false
	}
	return p, true
}

// Set overwrites the book's progress, stamping the update time server-side.
func (s *Store) Set(bookID string, p Progress) error {
	l := s.lock(bookID)
	l.Lock()
	defer l.Unlock()

	p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	path := s.path(bookID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create book directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

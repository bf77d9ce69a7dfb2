// Package annotationstore persists per-book annotation collections as a
// single JSON array on disk. Every mutation is a full read-modify-write of
// the book's file: simple, and sufficient for a single-user local tool.
package annotationstore

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/mrlokans/reader/internal/entities"
)

const annotationsFileName = "annotations.json"

// Store provides durable CRUD over one annotation file per book under the
// books directory. A per-book mutex makes each read-modify-write atomic
// within the process; across processes the last writer still wins.
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
	return filepath.Join(s.booksDir, bookID, annotationsFileName)
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

// LoadAll reads the book's annotation collection in insertion order.
// A missing file means a book without annotations yet and yields an empty
// slice. A malformed file is logged and also yields an empty slice: losing
// visibility into one book's annotations must not take the reader down, and
// the next successful write replaces the whole file anyway.
func (s *Store) LoadAll(bookID string) []entities.Annotation {
	l := s.lock(bookID)
	l.Lock()
	defer l.Unlock()
	return s.loadLocked(bookID)
}

func (s *Store) loadLocked(bookID string) []entities.Annotation {
	data, err := os.ReadFile(s.path(bookID))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error loading annotations for %s: %v", bookID, err)
		}
		return []entities.Annotation{}
	}

	var annotations []entities.Annotation
	if err := json.Unmarshal(data, &annotations); err != nil {
		log.Printf("Error loading annotations for %s: %v", bookID, err)
		return []entities.Annotation{}
	}
	for i := range annotations {
		if err := annotations[i].Validate(); err != nil {
			log.Printf("Error loading annotations for %s: record %d: %v", bookID, i, err)
			return []entities.Annotation{}
		}
	}
	if annotations == nil {
		annotations = []entities.Annotation{}
	}
	return annotations
}

// writeLocked rewrites the book's entire collection. Unlike reads, a failed
// persist is propagated: the caller must see that nothing was saved.
func (s *Store) writeLocked(bookID string, annotations []entities.Annotation) error {
	path := s.path(bookID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create book directory: %w", err)
	}

	data, err := json.MarshalIndent(annotations, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal annotations: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write annotations: %w", err)
	}
	return nil
}

// Append adds a new annotation to the end of the book's collection and
// rewrites the file. The id is assumed server-assigned; there is no
// duplicate check beyond the statistical uniqueness of id generation.
func (s *Store) Append(bookID string, ann entities.Annotation) error {
	l := s.lock(bookID)
	l.Lock()
	defer l.Unlock()

	annotations := s.loadLocked(bookID)
	annotations = append(annotations, ann)
	return s.writeLocked(bookID, annotations)
}

// DeleteByID removes the annotation with the given id. When no record
// matches it reports found=false and performs no write, leaving the file
// untouched.
func (s *Store) DeleteByID(bookID, id string) (bool, error) {
	l := s.lock(bookID)
	l.Lock()
	defer l.Unlock()

	annotations := s.loadLocked(bookID)
	filtered := annotations[:0]
	for _, a := range annotations {
		if a.ID != id {
			filtered = append(filtered, a)
		}
	}
	if len(filtered) == len(annotations) {
		return false, nil
	}
	if err := s.writeLocked(bookID, filtered); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateByID replaces the entire record whose id matches the supplied
// annotation's id. Only the id is matched; type, target and content are
// taken wholesale from the replacement. Rewrites the file only when found.
func (s *Store) UpdateByID(bookID string, ann entities.Annotation) (bool, error) {
	l := s.lock(bookID)
	l.Lock()
	defer l.Unlock()

	annotations := s.loadLocked(bookID)
	found := false
	for i := range annotations {
		if annotations[i].ID == ann.ID {
			annotations[i] = ann
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	if err := s.writeLocked(bookID, annotations); err != nil {
		return false, err
	}
	return true, nil
}

// AppendChatMessage appends a message to an annotation's chat thread,
// initializing the thread on first use. A plain highlight is promoted to a
// chat_thread by its first message; notes and existing chat threads keep
// their type.
func (s *Store) AppendChatMessage(bookID, id string, msg entities.ChatMessage) (bool, error) {
	l := s.lock(bookID)
	l.Lock()
	defer l.Unlock()

	annotations := s.loadLocked(bookID)
	found := false
	for i := range annotations {
		if annotations[i].ID != id {
			continue
		}
		if annotations[i].Content.ChatMessages == nil {
			annotations[i].Content.ChatMessages = []entities.ChatMessage{}
		}
		annotations[i].Content.ChatMessages = append(annotations[i].Content.ChatMessages, msg)
		if annotations[i].Type == entities.AnnotationTypeHighlight {
			annotations[i].Type = entities.AnnotationTypeChatThread
		}
		found = true
		break
	}
	if !found {
		return false, nil
	}
	if err := s.writeLocked(bookID, annotations); err != nil {
		return false, err
	}
	return true, nil
}

// Package chatstore persists a per-book chat history as a JSON array of
// messages in arrival order. Structurally a smaller sibling of the
// annotation store: reads fail soft, writes fail loud.
package chatstore

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/mrlokans/reader/internal/entities"
)

const chatHistoryFileName = "chat_history.json"

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
	return filepath.Join(s.booksDir, bookID, chatHistoryFileName)
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

// Load returns the book's chat history, oldest first. Missing or corrupt
// files yield an empty history.
func (s *Store) Load(bookID string) []entities.ChatMessage {
	l := s.lock(bookID)
	l.Lock()
	defer l.Unlock()
	return s.loadLocked(bookID)
}

func (s *Store) loadLocked(bookID string) []entities.ChatMessage {
	data, err := os.ReadFile(s.path(bookID))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error loading chat history for %s: %v", bookID, err)
		}
		return []entities.ChatMessage{}
	}

	var messages []entities.ChatMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		log.Printf("Error loading chat history for %s: %v", bookID, err)
		return []entities.ChatMessage{}
	}
	if messages == nil {
		messages = []entities.ChatMessage{}
	}
	return messages
}

// Append adds a message to the end of the book's history and rewrites the
// file in full.
func (s *Store) Append(bookID string, msg entities.ChatMessage) error {
	l := s.lock(bookID)
	l.Lock()
	defer l.Unlock()

	messages := s.loadLocked(bookID)
	messages = append(messages, msg)

	path := s.path(bookID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create book directory: %w", err)
	}
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal chat history: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write chat history: %w", err)
	}
	return nil
}

// Clear deletes the book's chat history file. Clearing a book that has no
// history is not an error.
func (s *Store) Clear(bookID string) error {
	l := s.lock(bookID)
	l.Lock()
	defer l.Unlock()

	if err := os.Remove(s.path(bookID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear chat history: %w", err)
	}
	return nil
}

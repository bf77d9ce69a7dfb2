// Package library loads processed books from the books directory and keeps
// a small fixed-capacity cache of them so chapter navigation does not
// re-read the disk on every click.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const bookFileName = "book.json"

// ErrBookNotFound is returned when a book directory or its book.json is
// missing.
var ErrBookNotFound = errors.New("book not found")

// BookSummary is the listing row for the library view.
type BookSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Chapters int    `json:"chapters"`
	IsPDF    bool   `json:"is_pdf"`
}

// Library resolves book ids to loaded books. Cached entries are evicted
// least-recently-used once capacity is reached.
type Library struct {
	booksDir string
	cache    *lru.Cache[string, *Book]
}

func New(booksDir string, cacheSize int) (*Library, error) {
	if cacheSize < 1 {
		cacheSize = 1
	}
	cache, err := lru.New[string, *Book](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create book cache: %w", err)
	}
	return &Library{booksDir: booksDir, cache: cache}, nil
}

// Load returns the book with the given id, reading book.json on a cache
// miss. Returns ErrBookNotFound when the book is absent.
func (l *Library) Load(bookID string) (*Book, error) {
	if book, ok := l.cache.Get(bookID); ok {
		return book, nil
	}

	path := filepath.Join(l.booksDir, bookID, bookFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("read book %s: %w", bookID, err)
	}

	var book Book
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("parse book %s: %w", bookID, err)
	}

	l.cache.Add(bookID, &book)
	return &book, nil
}

// List scans the books directory for processed book folders (directories
// ending in "_data" that contain a book.json) and returns their summaries
// sorted by title. Folders that fail to load are logged and skipped.
func (l *Library) List() []BookSummary {
	entries, err := os.ReadDir(l.booksDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error scanning books directory %s: %v", l.booksDir, err)
		}
		return []BookSummary{}
	}

	summaries := []BookSummary{}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), "_data") {
			continue
		}
		book, err := l.Load(entry.Name())
		if err != nil {
			if !errors.Is(err, ErrBookNotFound) {
				log.Printf("Error loading book %s: %v", entry.Name(), err)
			}
			continue
		}
		summaries = append(summaries, BookSummary{
			ID:       entry.Name(),
			Title:    book.Metadata.Title,
			Author:   book.Author(),
			Chapters: len(book.Spine),
			IsPDF:    book.IsPDF(),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Title < summaries[j].Title
	})
	return summaries
}

// Invalidate drops a single book from the cache, e.g. after re-conversion.
func (l *Library) Invalidate(bookID string) {
	l.cache.Remove(bookID)
}

// Reset clears the whole cache. Used by tests between fixtures.
func (l *Library) Reset() {
	l.cache.Purge()
}

// BooksDir returns the root directory the library serves from.
func (l *Library) BooksDir() string {
	return l.booksDir
}

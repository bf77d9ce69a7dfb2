package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/library"
)

// BookReader provides read access to the processed book library.
type BookReader interface {
	Load(bookID string) (*library.Book, error)
	List() []library.BookSummary
}

type BooksController struct {
	books BookReader
}

func NewBooksController(books BookReader) *BooksController {
	return &BooksController{books: books}
}

// ListBooks returns the library listing.
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"books": bc.books.List()})
}

// bookDetail is the book representation without chapter bodies; spine HTML
// is fetched chapter by chapter.
type bookDetail struct {
	ID       string               `json:"id"`
	Metadata library.BookMetadata `json:"metadata"`
	Chapters int                  `json:"chapters"`
	TOC      []library.TOCEntry   `json:"toc,omitempty"`
	IsPDF    bool                 `json:"is_pdf"`
	PDFURL   string               `json:"pdf_url,omitempty"`
}

// GetBook returns a single book's metadata and table of contents.
// GET /api/books/:bookId
func (bc *BooksController) GetBook(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}

	book, err := bc.books.Load(bookID)
	if err != nil {
		if errors.Is(err, library.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "load book")
		return
	}

	detail := bookDetail{
		ID:       bookID,
		Metadata: book.Metadata,
		Chapters: len(book.Spine),
		TOC:      book.TOC,
		IsPDF:    book.IsPDF(),
	}
	if detail.IsPDF {
		detail.PDFURL = "/books/" + bookID + "/original.pdf"
	}

	c.JSON(http.StatusOK, detail)
}

// chapterResponse carries one spine entry plus prev/next navigation indices
// (null at the edges of the spine).
type chapterResponse struct {
	BookID       string                 `json:"book_id"`
	ChapterIndex int                    `json:"chapter_index"`
	Chapter      library.ChapterContent `json:"chapter"`
	PrevIndex    *int                   `json:"prev_index"`
	NextIndex    *int                   `json:"next_index"`
}

// GetChapter returns a single chapter's content.
// GET /api/books/:bookId/chapters/:index
func (bc *BooksController) GetChapter(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondBadRequest(c, "invalid chapter index")
		return
	}

	book, err := bc.books.Load(bookID)
	if err != nil {
		if errors.Is(err, library.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "load book")
		return
	}

	if index < 0 || index >= len(book.Spine) {
		respondNotFound(c, "chapter")
		return
	}

	resp := chapterResponse{
		BookID:       bookID,
		ChapterIndex: index,
		Chapter:      book.Spine[index],
	}
	if index > 0 {
		prev := index - 1
		resp.PrevIndex = &prev
	}
	if index < len(book.Spine)-1 {
		next := index + 1
		resp.NextIndex = &next
	}

	c.JSON(http.StatusOK, resp)
}

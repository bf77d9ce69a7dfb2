package library

import "strings"

// BookMetadata carries the bibliographic fields extracted by the converter.
type BookMetadata struct {
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Language   string   `json:"language,omitempty"`
	Identifier string   `json:"identifier,omitempty"`
}

// ChapterContent is one spine entry's rendered HTML.
type ChapterContent struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// TOCEntry is a node in the book's table of contents, pointing into the
// spine by chapter index.
type TOCEntry struct {
	Title        string     `json:"title"`
	ChapterIndex int        `json:"chapter_index"`
	Children     []TOCEntry `json:"children,omitempty"`
}

// Book is the normalized per-book representation produced by the EPUB/PDF
// conversion pipeline and stored as book.json in the book's directory.
type Book struct {
	Metadata    BookMetadata     `json:"metadata"`
	Spine       []ChapterContent `json:"spine"`
	TOC         []TOCEntry       `json:"toc,omitempty"`
	SourceFile  string           `json:"source_file"`
	ProcessedAt string           `json:"processed_at,omitempty"`
}

// IsPDF reports whether the book was converted from a PDF source. PDF books
// are read page-by-page from the original file rather than chapter-by-chapter
// from the spine.
func (b *Book) IsPDF() bool {
	return strings.HasSuffix(strings.ToLower(b.SourceFile), ".pdf")
}

// Author joins the author list for display.
func (b *Book) Author() string {
	return strings.Join(b.Metadata.Authors, ", ")
}

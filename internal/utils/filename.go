package utils

import (
	"path/filepath"
	"strings"
)

// SanitizeBookID reduces a client-supplied book identifier to a safe
// directory name. Book ids arrive as URL path segments and are used to build
// filesystem paths, so anything that could escape the books directory is
// rejected by returning the empty string.
func SanitizeBookID(bookID string) string {
	// Normalize both separator styles before taking the base name.
	bookID = strings.ReplaceAll(bookID, "\\", "/")
	bookID = filepath.Base(bookID)

	if bookID == "." || bookID == ".." || bookID == "/" || bookID == "" {
		return ""
	}
	return bookID
}

// SanitizeFileName reduces a client-supplied file name (e.g. an image
// referenced from chapter HTML) to its base name.
func SanitizeFileName(name string) string {
	return SanitizeBookID(name)
}

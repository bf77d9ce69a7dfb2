package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AnnotationType string

const (
	AnnotationTypeHighlight  AnnotationType = "highlight"
	AnnotationTypeNote       AnnotationType = "note"
	AnnotationTypeChatThread AnnotationType = "chat_thread"
)

// ValidationError reports the first field that failed schema validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// AnnotationTarget describes where in the document an annotation attaches.
// For EPUB books ChapterIndex addresses the spine and CFI/Quote narrow the
// selection; for PDF books PageNum and the bounding boxes are used instead.
type AnnotationTarget struct {
	ChapterIndex int    `json:"chapter_index"`
	CFI          string `json:"cfi,omitempty"`
	Quote        string `json:"quote,omitempty"`
	PageNum      *int   `json:"page_num,omitempty"`

	// Deprecated: single bounding box, use Rects instead. Kept for backward
	// compatibility with records written before multi-line highlights.
	Rect []float64 `json:"rect,omitempty"`

	Rects [][]float64 `json:"rects,omitempty"`
}

// Normalize migrates the legacy single-rect representation to Rects.
// It runs before validation on every construction path and is idempotent:
// an already-migrated target comes out unchanged, and an explicit Rects
// always wins over the legacy field.
func (t *AnnotationTarget) Normalize() {
	if len(t.Rect) > 0 && t.Rects == nil {
		t.Rects = [][]float64{t.Rect}
	}
}

// UnmarshalJSON decodes the target and applies the rect->rects migration, so
// both legacy records on disk and legacy request bodies are normalized
// uniformly before anything downstream sees them.
func (t *AnnotationTarget) UnmarshalJSON(data []byte) error {
	type alias AnnotationTarget
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = AnnotationTarget(raw)
	t.Normalize()
	return nil
}

func (t *AnnotationTarget) validate() *ValidationError {
	if t.ChapterIndex < 0 {
		return &ValidationError{Field: "target.chapter_index", Message: "must not be negative"}
	}
	if t.PageNum != nil && *t.PageNum < 1 {
		return &ValidationError{Field: "target.page_num", Message: "must be 1-based"}
	}
	if len(t.Rect) != 0 && len(t.Rect) != 4 {
		return &ValidationError{Field: "target.rect", Message: "must have exactly 4 values"}
	}
	for i, r := range t.Rects {
		if len(r) != 4 {
			return &ValidationError{Field: fmt.Sprintf("target.rects[%d]", i), Message: "must have exactly 4 values"}
		}
	}
	return nil
}

// ChatMessage is a single turn in an annotation's chat thread. Role is
// free-form ("user"/"assistant"/"system" by convention, not enforced).
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (m *ChatMessage) Validate() error {
	if m.Role == "" {
		return &ValidationError{Field: "role", Message: "must not be empty"}
	}
	if m.Content == "" {
		return &ValidationError{Field: "content", Message: "must not be empty"}
	}
	return nil
}

// AnnotationContent holds the annotation payload.
type AnnotationContent struct {
	Text         string        `json:"text,omitempty"`
	Color        string        `json:"color,omitempty"`
	ChatMessages []ChatMessage `json:"chat_messages,omitempty"`
}

// Annotation is the unit of persisted user commentary on a book.
type Annotation struct {
	ID        string            `json:"id"`
	CreatedAt string            `json:"created_at"`
	Type      AnnotationType    `json:"type"`
	Target    AnnotationTarget  `json:"target"`
	Content   AnnotationContent `json:"content"`
}

// AssignIdentity stamps a server-generated id and creation timestamp,
// discarding whatever the client supplied for either.
func (a *Annotation) AssignIdentity() {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC().Format(time.RFC3339)
}

// Validate checks the annotation against the schema, returning a
// *ValidationError naming the first offending field. The target is
// normalized first so legacy input never fails on shape alone.
func (a *Annotation) Validate() error {
	a.Target.Normalize()

	switch a.Type {
	case AnnotationTypeHighlight, AnnotationTypeNote, AnnotationTypeChatThread:
	default:
		return &ValidationError{Field: "type", Message: "must be one of highlight, note, chat_thread"}
	}

	if err := a.Target.validate(); err != nil {
		return err
	}
	return nil
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/progressstore"
)

// ProgressStore defines the reading-progress operations the controller needs.
type ProgressStore interface {
	Get(bookID string) (progressstore.Progress, bool)
	Set(bookID string, p progressstore.Progress) error
}

type ProgressController struct {
	store ProgressStore
}

func NewProgressController(store ProgressStore) *ProgressController {
	return &ProgressController{store: store}
}

// Get returns the saved position for a book. A book never opened answers
// 200 with the zero record so the reader can start from the beginning.
// GET /api/progress/:bookId
func (pc *ProgressController) Get(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}

	progress, _ := pc.store.Get(bookID)
	c.JSON(http.StatusOK, progress)
}

// Set overwrites the saved position for a book.
// PUT /api/progress/:bookId
func (pc *ProgressController) Set(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}

	var progress progressstore.Progress
	if err := c.ShouldBindJSON(&progress); err != nil {
		respondBadRequest(c, "invalid progress body: "+err.Error())
		return
	}
	if progress.ChapterIndex < 0 {
		respondBadRequest(c, "invalid chapter_index: must not be negative")
		return
	}

	if err := pc.store.Set(bookID, progress); err != nil {
		respondInternalError(c, err, "save progress")
		return
	}

	respondSuccess(c, "progress saved")
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/entities"
)

// AnnotationStore defines the per-book annotation operations the controller
// needs. Reads are fail-soft (never error); writes propagate failures.
type AnnotationStore interface {
	LoadAll(bookID string) []entities.Annotation
	Append(bookID string, ann entities.Annotation) error
	DeleteByID(bookID, id string) (bool, error)
	UpdateByID(bookID string, ann entities.Annotation) (bool, error)
	AppendChatMessage(bookID, id string, msg entities.ChatMessage) (bool, error)
}

type AnnotationsController struct {
	store AnnotationStore
}

func NewAnnotationsController(store AnnotationStore) *AnnotationsController {
	return &AnnotationsController{store: store}
}

// List returns the book's full annotation collection in insertion order.
// A book with no annotations yet is a normal state, not a missing resource,
// so this always answers 200.
// GET /api/annotations/:bookId
func (ac *AnnotationsController) List(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ac.store.LoadAll(bookID))
}

// Create validates the annotation, assigns a server-side id and creation
// timestamp (any client-supplied values for either are ignored), and appends
// it to the book's collection.
// POST /api/annotations/:bookId
func (ac *AnnotationsController) Create(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}

	var ann entities.Annotation
	if err := c.ShouldBindJSON(&ann); err != nil {
		respondBadRequest(c, "invalid annotation body: "+err.Error())
		return
	}
	if err := ann.Validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ann.AssignIdentity()

	if err := ac.store.Append(bookID, ann); err != nil {
		respondInternalError(c, err, "create annotation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": ann.ID})
}

// Update fully replaces the annotation's type, target and content. The body
// may omit the id; when present it must match the path, rejected as a client
// error before the store is touched.
// PUT /api/annotations/:bookId/:annId
func (ac *AnnotationsController) Update(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}
	annID := c.Param("annId")

	var ann entities.Annotation
	if err := c.ShouldBindJSON(&ann); err != nil {
		respondBadRequest(c, "invalid annotation body: "+err.Error())
		return
	}
	if ann.ID != "" && ann.ID != annID {
		respondBadRequest(c, "annotation id does not match URL")
		return
	}
	if err := ann.Validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ann.ID = annID

	found, err := ac.store.UpdateByID(bookID, ann)
	if err != nil {
		respondInternalError(c, err, "update annotation")
		return
	}
	if !found {
		respondNotFound(c, "annotation")
		return
	}

	respondSuccess(c, "annotation updated")
}

// Delete removes the annotation by id.
// DELETE /api/annotations/:bookId/:annId
func (ac *AnnotationsController) Delete(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}
	annID := c.Param("annId")

	found, err := ac.store.DeleteByID(bookID, annID)
	if err != nil {
		respondInternalError(c, err, "delete annotation")
		return
	}
	if !found {
		respondNotFound(c, "annotation")
		return
	}

	respondSuccess(c, "annotation deleted")
}

// AppendChat appends a chat message to the annotation's thread. The store
// promotes a plain highlight to a chat_thread on its first message.
// POST /api/annotations/:bookId/:annId/chat
func (ac *AnnotationsController) AppendChat(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}
	annID := c.Param("annId")

	var msg entities.ChatMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		respondBadRequest(c, "invalid chat message body: "+err.Error())
		return
	}
	if err := msg.Validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	found, err := ac.store.AppendChatMessage(bookID, annID, msg)
	if err != nil {
		respondInternalError(c, err, "append chat message")
		return
	}
	if !found {
		respondNotFound(c, "annotation")
		return
	}

	respondSuccess(c, "chat message appended")
}

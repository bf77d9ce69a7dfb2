package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/reader/internal/annotationstore"
	"github.com/mrlokans/reader/internal/entities"
)

func setupAnnotationsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := annotationstore.New(t.TempDir())
	return NewRouter(RouterConfig{AnnotationStore: store})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func createAnnotation(t *testing.T, router *gin.Engine, bookID string) string {
	t.Helper()

	payload := map[string]any{
		"type":    "highlight",
		"target":  map[string]any{"chapter_index": 0, "quote": "Test Quote"},
		"content": map[string]any{"text": "Original text", "color": "yellow"},
	}
	w := doJSON(t, router, "POST", "/api/annotations/"+bookID, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["id"])
	return resp["id"]
}

func listAnnotations(t *testing.T, router *gin.Engine, bookID string) []entities.Annotation {
	t.Helper()

	w := doJSON(t, router, "GET", "/api/annotations/"+bookID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var annotations []entities.Annotation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &annotations))
	return annotations
}

func TestAnnotationsController_CreateAndList(t *testing.T) {
	t.Run("create assigns an id and the record is listed", func(t *testing.T) {
		router := setupAnnotationsRouter(t)

		id := createAnnotation(t, router, "book_a")

		annotations := listAnnotations(t, router, "book_a")
		require.Len(t, annotations, 1)
		assert.Equal(t, id, annotations[0].ID)
		assert.Equal(t, entities.AnnotationTypeHighlight, annotations[0].Type)
		assert.Equal(t, "Test Quote", annotations[0].Target.Quote)
		assert.NotEmpty(t, annotations[0].CreatedAt)
	})

	t.Run("client-supplied id is ignored on create", func(t *testing.T) {
		router := setupAnnotationsRouter(t)

		payload := map[string]any{
			"id":      "client-picked-id",
			"type":    "note",
			"target":  map[string]any{"chapter_index": 0},
			"content": map[string]any{"text": "note"},
		}
		w := doJSON(t, router, "POST", "/api/annotations/book_a", payload)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEqual(t, "client-picked-id", resp["id"])
	})

	t.Run("create with legacy rect persists migrated rects", func(t *testing.T) {
		router := setupAnnotationsRouter(t)

		payload := map[string]any{
			"type": "highlight",
			"target": map[string]any{
				"chapter_index": 0,
				"page_num":      5,
				"rect":          []float64{0.1, 0.1, 0.5, 0.5},
				"rects": [][]float64{
					{0.1, 0.1, 0.5, 0.1},
					{0.1, 0.2, 0.4, 0.1},
				},
				"quote": "Test Quote",
			},
			"content": map[string]any{"text": "", "color": "pink"},
		}
		w := doJSON(t, router, "POST", "/api/annotations/book_a", payload)
		require.Equal(t, http.StatusOK, w.Code)

		annotations := listAnnotations(t, router, "book_a")
		require.Len(t, annotations, 1)
		require.Len(t, annotations[0].Target.Rects, 2)
		assert.Equal(t, []float64{0.1, 0.1, 0.5, 0.1}, annotations[0].Target.Rects[0])
	})

	t.Run("create rejects an invalid type", func(t *testing.T) {
		router := setupAnnotationsRouter(t)

		payload := map[string]any{
			"type":    "bookmark",
			"target":  map[string]any{"chapter_index": 0},
			"content": map[string]any{},
		}
		w := doJSON(t, router, "POST", "/api/annotations/book_a", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("listing an unknown book returns an empty array", func(t *testing.T) {
		router := setupAnnotationsRouter(t)

		annotations := listAnnotations(t, router, "never_seen")
		assert.Empty(t, annotations)
	})

	t.Run("rejects a traversal book id", func(t *testing.T) {
		router := setupAnnotationsRouter(t)

		w := doJSON(t, router, "GET", "/api/annotations/..", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAnnotationsController_Update(t *testing.T) {
	t.Run("edits persist", func(t *testing.T) {
		router := setupAnnotationsRouter(t)
		id := createAnnotation(t, router, "book_a")

		payload := map[string]any{
			"id":      id,
			"type":    "note",
			"target":  map[string]any{"chapter_index": 0, "quote": "Test Quote"},
			"content": map[string]any{"text": "Edited", "color": "blue"},
		}
		w := doJSON(t, router, "PUT", "/api/annotations/book_a/"+id, payload)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		annotations := listAnnotations(t, router, "book_a")
		require.Len(t, annotations, 1)
		assert.Equal(t, entities.AnnotationTypeNote, annotations[0].Type)
		assert.Equal(t, "Edited", annotations[0].Content.Text)
		assert.Equal(t, "blue", annotations[0].Content.Color)
	})

	t.Run("body id may be omitted", func(t *testing.T) {
		router := setupAnnotationsRouter(t)
		id := createAnnotation(t, router, "book_a")

		payload := map[string]any{
			"type":    "note",
			"target":  map[string]any{"chapter_index": 0},
			"content": map[string]any{"text": "Edited"},
		}
		w := doJSON(t, router, "PUT", "/api/annotations/book_a/"+id, payload)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("mismatched body id is a 400 and nothing changes", func(t *testing.T) {
		router := setupAnnotationsRouter(t)
		id := createAnnotation(t, router, "book_a")

		payload := map[string]any{
			"id":      "some-other-id",
			"type":    "note",
			"target":  map[string]any{"chapter_index": 0},
			"content": map[string]any{"text": "Edited"},
		}
		w := doJSON(t, router, "PUT", "/api/annotations/book_a/"+id, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		annotations := listAnnotations(t, router, "book_a")
		assert.Equal(t, entities.AnnotationTypeHighlight, annotations[0].Type)
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		router := setupAnnotationsRouter(t)

		payload := map[string]any{
			"id":      "bad-id",
			"type":    "note",
			"target":  map[string]any{"chapter_index": 0},
			"content": map[string]any{},
		}
		w := doJSON(t, router, "PUT", "/api/annotations/book_missing/bad-id", payload)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAnnotationsController_Delete(t *testing.T) {
	t.Run("deleted annotations disappear from the listing", func(t *testing.T) {
		router := setupAnnotationsRouter(t)
		id := createAnnotation(t, router, "book_a")

		w := doJSON(t, router, "DELETE", "/api/annotations/book_a/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)

		assert.Empty(t, listAnnotations(t, router, "book_a"))
	})

	t.Run("unknown id on a fresh book is a 404 and the book stays empty", func(t *testing.T) {
		router := setupAnnotationsRouter(t)

		w := doJSON(t, router, "DELETE", "/api/annotations/fresh_book/bad-id", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		assert.Empty(t, listAnnotations(t, router, "fresh_book"))
	})
}

func TestAnnotationsController_AppendChat(t *testing.T) {
	t.Run("first reply promotes a highlight to a chat thread", func(t *testing.T) {
		router := setupAnnotationsRouter(t)
		id := createAnnotation(t, router, "book_a")

		msg := map[string]string{"role": "user", "content": "Explain this context"}
		w := doJSON(t, router, "POST", "/api/annotations/book_a/"+id+"/chat", msg)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		annotations := listAnnotations(t, router, "book_a")
		require.Len(t, annotations, 1)
		assert.Equal(t, entities.AnnotationTypeChatThread, annotations[0].Type)
		require.Len(t, annotations[0].Content.ChatMessages, 1)
		assert.Equal(t, "Explain this context", annotations[0].Content.ChatMessages[0].Content)
	})

	t.Run("missing annotation is a 404", func(t *testing.T) {
		router := setupAnnotationsRouter(t)

		msg := map[string]string{"role": "user", "content": "hello?"}
		w := doJSON(t, router, "POST", "/api/annotations/book_a/bad-id/chat", msg)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("empty role is a 400", func(t *testing.T) {
		router := setupAnnotationsRouter(t)
		id := createAnnotation(t, router, "book_a")

		msg := map[string]string{"content": "no role"}
		w := doJSON(t, router, "POST", "/api/annotations/book_a/"+id+"/chat", msg)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

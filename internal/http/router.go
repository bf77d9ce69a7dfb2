package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Raw book assets: original.pdf, images referenced from chapter HTML.
	if cfg.BooksDir != "" {
		router.Static("/books", cfg.BooksDir)
	}

	// Health endpoints
	health := NewHealthController(cfg.BooksDir, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Library endpoints
	if cfg.BookReader != nil {
		booksController := NewBooksController(cfg.BookReader)
		router.GET("/api/books", booksController.ListBooks)
		router.GET("/api/books/:bookId", booksController.GetBook)
		router.GET("/api/books/:bookId/chapters/:index", booksController.GetChapter)
	}

	// Annotation endpoints
	if cfg.AnnotationStore != nil {
		annotationsController := NewAnnotationsController(cfg.AnnotationStore)
		router.GET("/api/annotations/:bookId", annotationsController.List)
		router.POST("/api/annotations/:bookId", annotationsController.Create)
		router.PUT("/api/annotations/:bookId/:annId", annotationsController.Update)
		router.DELETE("/api/annotations/:bookId/:annId", annotationsController.Delete)
		router.POST("/api/annotations/:bookId/:annId/chat", annotationsController.AppendChat)
	}

	// Reading progress endpoints
	if cfg.ProgressStore != nil {
		progressController := NewProgressController(cfg.ProgressStore)
		router.GET("/api/progress/:bookId", progressController.Get)
		router.PUT("/api/progress/:bookId", progressController.Set)
	}

	// Chat endpoints: provider proxy plus per-book history
	if cfg.ChatProxy != nil || cfg.ChatHistory != nil {
		chatController := NewChatController(cfg.ChatProxy, cfg.ChatHistory)
		if cfg.ChatProxy != nil {
			router.POST("/api/chat", chatController.Proxy)
		}
		if cfg.ChatHistory != nil {
			router.GET("/api/history/:bookId", chatController.GetHistory)
			router.POST("/api/history/:bookId", chatController.AppendHistory)
			router.DELETE("/api/history/:bookId", chatController.ClearHistory)
		}
	}

	// Shutdown endpoint, used by the UI's quit button
	if cfg.ShutdownRequester != nil {
		router.POST("/api/shutdown", func(c *gin.Context) {
			respondSuccess(c, "server shutting down")
			cfg.ShutdownRequester()
		})
	}

	return router
}

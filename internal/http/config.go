package http

import (
	"github.com/mrlokans/reader/internal/chatproxy"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. Controllers receive narrow interfaces carved from these.
type RouterConfig struct {
	// Core stores
	AnnotationStore AnnotationStore
	ProgressStore   ProgressStore
	ChatHistory     ChatHistoryStore

	// Book library
	BookReader BookReader

	// LLM provider pass-through
	ChatProxy *chatproxy.Client

	// Filesystem root the /books static route serves from
	BooksDir string

	// Application info
	Version string

	// ShutdownRequester triggers a graceful shutdown when the UI asks for
	// it; nil disables the shutdown endpoint.
	ShutdownRequester func()
}

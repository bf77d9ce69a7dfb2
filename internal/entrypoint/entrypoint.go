package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/annotationstore"
	"github.com/mrlokans/reader/internal/chatproxy"
	"github.com/mrlokans/reader/internal/chatstore"
	"github.com/mrlokans/reader/internal/config"
	http_controllers "github.com/mrlokans/reader/internal/http"
	"github.com/mrlokans/reader/internal/library"
	"github.com/mrlokans/reader/internal/progressstore"
)

// Serve runs the configured router until a shutdown signal arrives, either
// from the OS or from the shutdown endpoint via the quit channel.
func Serve(router *gin.Engine, cfg *config.Config, quit chan os.Signal) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Reader v%s", version)

	log.Printf("Checking books directory: %s\n", cfg.Library.BooksDir)
	if err := os.MkdirAll(cfg.Library.BooksDir, 0755); err != nil {
		log.Fatalf("Books directory %s is not usable: %v", cfg.Library.BooksDir, err)
	}

	books, err := library.New(cfg.Library.BooksDir, cfg.Library.CacheSize)
	if err != nil {
		log.Fatalf("Failed to initialize book library: %v", err)
	}

	annotations := annotationstore.New(cfg.Library.BooksDir)
	progress := progressstore.New(cfg.Library.BooksDir)
	chatHistory := chatstore.New(cfg.Library.BooksDir)
	chatProxy := chatproxy.NewClient(cfg.Chat.ProxyTimeout)

	// The shutdown endpoint feeds the same channel as SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	requestShutdown := func() {
		log.Printf("Shutdown requested via API")
		quit <- syscall.SIGTERM
	}

	routerCfg := http_controllers.RouterConfig{
		AnnotationStore:   annotations,
		ProgressStore:     progress,
		ChatHistory:       chatHistory,
		BookReader:        books,
		ChatProxy:         chatProxy,
		BooksDir:          cfg.Library.BooksDir,
		Version:           version,
		ShutdownRequester: requestShutdown,
	}

	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg, quit)
}

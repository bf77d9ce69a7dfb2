package http

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	booksDir string
	version  string
}

func NewHealthController(booksDir, version string) *HealthController {
	return &HealthController{
		booksDir: booksDir,
		version:  version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if info, err := os.Stat(h.booksDir); err != nil {
		checks["books_dir"] = "error: " + err.Error()
		status = "unhealthy"
	} else if !info.IsDir() {
		checks["books_dir"] = "error: not a directory"
		status = "unhealthy"
	} else {
		checks["books_dir"] = "ok"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

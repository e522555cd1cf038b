package migrate

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Service is the interface for the migration engine.
type Service interface {
	Backup(ctx context.Context) ([]LegacyPOV, BackupResult, error)
	Migrate(ctx context.Context) MigrationResult
	Validate(ctx context.Context) ValidationResult
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provide the HTTP transport for.
	Service Service

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.POST("/backup", h.backupHandler)
	r.POST("/run", h.runHandler)
	r.GET("/validate", h.validateHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) backupHandler(c *gin.Context) {
	_, result, err := h.Service.Backup(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *httpHandler) runHandler(c *gin.Context) {
	result := h.Service.Migrate(c)
	if !result.Success {
		// Partial state stays in place; a re-run may duplicate data.
		c.JSON(http.StatusInternalServerError, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *httpHandler) validateHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Validate(c))
}

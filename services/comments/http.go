package comments

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Service is the interface for the comment repository.
type Service interface {
	Add(ctx context.Context, slotID, matchID, povID, text string) Comment
	Get(ctx context.Context, slotID, matchID, povID string) []Comment
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
	r.POST("", h.addHandler)
	r.GET("", h.listHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) addHandler(c *gin.Context) {
	var req AddCommentRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	comment := h.Service.Add(c, c.Param("slot_id"), c.Param("match_id"), c.Param("pov_id"), req.Text)
	c.JSON(http.StatusCreated, comment)
}

func (h *httpHandler) listHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.Get(c, c.Param("slot_id"), c.Param("match_id"), c.Param("pov_id")))
}

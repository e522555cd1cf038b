package slots

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eclipse-gg/pov-archive/repos/docstore"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	DELETE(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Service is the interface for the slot repository.
type Service interface {
	Create(ctx context.Context, req CreateSlotRequest) Slot
	GetAll(ctx context.Context) []Slot
	GetByID(ctx context.Context, slotID string) (Slot, error)
	Update(ctx context.Context, slotID string, req UpdateSlotRequest)
	Delete(ctx context.Context, slotID string)
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
	r.POST("", h.createHandler)
	r.GET("", h.listHandler)
	r.GET("/:slot_id", h.getHandler)
	r.POST("/:slot_id", h.updateHandler)
	r.DELETE("/:slot_id", h.deleteHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) createHandler(c *gin.Context) {
	var req CreateSlotRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	slot := h.Service.Create(c, req)
	c.JSON(http.StatusCreated, slot)
}

func (h *httpHandler) listHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.GetAll(c))
}

func (h *httpHandler) getHandler(c *gin.Context) {
	slot, err := h.Service.GetByID(c, c.Param("slot_id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "slot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *httpHandler) updateHandler(c *gin.Context) {
	var req UpdateSlotRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.Service.Update(c, c.Param("slot_id"), req)
	c.JSON(http.StatusOK, gin.H{"message": "slot updated"})
}

func (h *httpHandler) deleteHandler(c *gin.Context) {
	h.Service.Delete(c, c.Param("slot_id"))
	c.JSON(http.StatusOK, gin.H{"message": "slot deleted"})
}

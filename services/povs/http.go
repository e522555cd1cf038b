package povs

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eclipse-gg/pov-archive/pkg/youtube"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	DELETE(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Service is the interface for the POV repository.
type Service interface {
	Create(ctx context.Context, slotID, matchID string, req CreatePOVRequest) POV
	GetByMatch(ctx context.Context, slotID, matchID string) []POV
	Delete(ctx context.Context, slotID, matchID, povID string)
	DeleteBulk(ctx context.Context, refs []POVRef) int
	GetAllFlattened(ctx context.Context) []POV
	GetAllPlayers(ctx context.Context) []string
	GetByPlayer(ctx context.Context, playerName string) []POV
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provide the HTTP transport for.
	Service Service

	// Nested routes under a slot/match scope.
	MatchRouter Router

	// Flat routes over the whole archive.
	ArchiveRouter Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	h := &httpHandler{opts}

	m := opts.MatchRouter
	m.POST("", h.createHandler)
	m.GET("", h.listHandler)
	m.DELETE("/:pov_id", h.deleteHandler)

	a := opts.ArchiveRouter
	a.GET("", h.flattenedHandler)
	a.POST("/bulk-delete", h.bulkDeleteHandler)
	a.GET("/players", h.playersHandler)
	a.GET("/players/:player_name", h.byPlayerHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) createHandler(c *gin.Context) {
	var req CreatePOVRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Validation lives here; the service trusts its input.
	if strings.TrimSpace(req.PlayerName) == "" || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "playerName and title are required"})
		return
	}
	req.VideoID = youtube.ExtractVideoID(req.YouTubeURL)
	if req.VideoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a valid YouTube URL"})
		return
	}

	pov := h.Service.Create(c, c.Param("slot_id"), c.Param("match_id"), req)
	c.JSON(http.StatusCreated, pov)
}

func (h *httpHandler) listHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.GetByMatch(c, c.Param("slot_id"), c.Param("match_id")))
}

func (h *httpHandler) deleteHandler(c *gin.Context) {
	h.Service.Delete(c, c.Param("slot_id"), c.Param("match_id"), c.Param("pov_id"))
	c.JSON(http.StatusOK, gin.H{"message": "pov deleted"})
}

// flattenedHandler serves the whole archive with optional query filters:
// search, players (comma separated), from, to, sort.
func (h *httpHandler) flattenedHandler(c *gin.Context) {
	list := h.Service.GetAllFlattened(c)

	filters := Filters{
		Search:   c.Query("search"),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
	}
	if players := c.Query("players"); players != "" {
		filters.Players = strings.Split(players, ",")
	}

	list = ApplyFilters(list, filters)
	if key := c.Query("sort"); key != "" {
		list = SortPOVs(list, key)
	}

	c.JSON(http.StatusOK, list)
}

func (h *httpHandler) bulkDeleteHandler(c *gin.Context) {
	var refs []POVRef
	if err := c.BindJSON(&refs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	for _, ref := range refs {
		if ref.SlotID == "" || ref.MatchID == "" || ref.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "every entry needs slotId, matchId and id"})
			return
		}
	}

	deleted := h.Service.DeleteBulk(c, refs)
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *httpHandler) playersHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.GetAllPlayers(c))
}

func (h *httpHandler) byPlayerHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.GetByPlayer(c, c.Param("player_name")))
}

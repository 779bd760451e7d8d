package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/docuflow/docuflow-backend/internal/proposals/domain"
	"github.com/docuflow/docuflow-backend/internal/proposals/service"
)

type Handler struct {
	svc     *service.UploadService
	store   service.ObjectStore
	gateway service.Dispatcher
}

// New creates the proposals handler. The store and gateway are used directly
// by the streaming relay, which does not persist a proposal row.
func New(svc *service.UploadService, store service.ObjectStore, gateway service.Dispatcher) *Handler {
	return &Handler{svc: svc, store: store, gateway: gateway}
}

// Register attaches proposal routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.POST("/upload", h.streamUpload)
}

func (h *Handler) list(c *gin.Context) {
	projectID := c.Query("project_id")
	if projectID != "" {
		if _, err := uuid.Parse(projectID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid project_id"})
			return
		}
	}

	items, err := h.svc.List(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "proposals": items})
}

func (h *Handler) create(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file and project_id are required"})
		return
	}
	projectID := c.PostForm("project_id")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file and project_id are required"})
		return
	}
	if _, err := uuid.Parse(projectID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	defer file.Close()

	p, err := h.svc.Upload(
		c.Request.Context(),
		projectID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidUpload):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		case errors.Is(err, service.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "proposal": p})
}

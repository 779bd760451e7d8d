package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docuflow/docuflow-backend/internal/gateway"
)

// Handler proxies task-status lookups to the processing gateway.
type Handler struct {
	client *gateway.Client
}

func New(client *gateway.Client) *Handler {
	return &Handler{client: client}
}

// Register attaches task routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/:id/status", h.taskStatus)
}

func (h *Handler) taskStatus(c *gin.Context) {
	resp, err := h.client.TaskStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to get task status"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to get task status"})
		return
	}

	proxyResponse(c, resp)
}

// proxyResponse forwards an HTTP response from the gateway to the client.
func proxyResponse(c *gin.Context, resp *http.Response) {
	for k, v := range resp.Header {
		if len(v) > 0 {
			c.Header(k, v[0])
		}
	}

	c.Status(resp.StatusCode)
	_, _ = io.Copy(c.Writer, resp.Body)
}

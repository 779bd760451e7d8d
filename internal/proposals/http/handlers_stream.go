package http

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docuflow/docuflow-backend/internal/upload"
)

// UploadEvent is one JSON object on the upload event stream.
type UploadEvent struct {
	Type     string `json:"type"` // uploading | uploaded | processing | error
	Message  string `json:"message"`
	Progress *int   `json:"progress,omitempty"`
	TaskID   string `json:"taskId,omitempty"`
}

// streamUpload relays a file to object storage and then to the processing
// gateway, emitting progress events over a server-sent event stream. It is a
// single-shot forwarding operation: no retry, no resume, and no proposal row
// (the non-streaming POST owns persistence). Failures emit a terminal
// "error" event before the stream closes.
func (h *Handler) streamUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file and projectId are required"})
		return
	}
	projectID := c.PostForm("projectId")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "file and projectId are required"})
		return
	}

	// SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "streaming unsupported"})
		return
	}

	ctx := c.Request.Context()
	emit := func(ev UploadEvent) {
		if ctx.Err() != nil {
			// Client disconnected; stop writing.
			return
		}
		data, _ := json.Marshal(ev)
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		flusher.Flush()
	}

	zero := 0
	emit(UploadEvent{Type: "uploading", Message: "Uploading file...", Progress: &zero})

	if err := upload.Validate(fileHeader.Filename, fileHeader.Size); err != nil {
		emit(UploadEvent{Type: "error", Message: err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("[error] operation=relay_open error=%v", err)
		emit(UploadEvent{Type: "error", Message: "failed to read upload"})
		return
	}
	defer file.Close()

	key := h.store.RelayKey(projectID, fileHeader.Filename)
	err = h.store.Put(ctx, key, file, fileHeader.Header.Get("Content-Type"), map[string]string{
		"originalname": fileHeader.Filename,
		"projectid":    projectID,
		"uploadedat":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("[error] operation=relay_store project_id=%s error=%v", projectID, err)
		emit(UploadEvent{Type: "error", Message: "failed to store file"})
		return
	}

	full := 100
	emit(UploadEvent{Type: "uploaded", Message: "File uploaded successfully!", Progress: &full})
	emit(UploadEvent{Type: "processing", Message: "Processing document..."})

	taskID, err := h.gateway.ProcessStored(ctx, projectID, h.store.URI(key), fileHeader.Filename)
	if err != nil {
		log.Printf("[error] operation=relay_dispatch project_id=%s error=%v", projectID, err)
		emit(UploadEvent{Type: "error", Message: "failed to start processing"})
		return
	}

	emit(UploadEvent{Type: "processing", Message: "Document processing started", TaskID: taskID})
}

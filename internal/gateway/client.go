package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Client handles communication with the external document-processing gateway.
// Dispatches are rate limited so a burst of uploads cannot flood the gateway.
type Client struct {
	baseURL        string
	defaultClient  *http.Client
	dispatchClient *http.Client
	limiter        *rate.Limiter
}

// NewClient creates a gateway client. rps/burst bound dispatch calls;
// zero values fall back to 5 rps with a burst of 10.
func NewClient(baseURL string, rps, burst int) *Client {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &Client{
		baseURL: baseURL,
		defaultClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		dispatchClient: &http.Client{
			Timeout: DispatchTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

type taskResponse struct {
	TaskID string `json:"task_id"`
	ID     string `json:"id"`
}

func (t taskResponse) taskID() string {
	if t.TaskID != "" {
		return t.TaskID
	}
	return t.ID
}

// Process forwards raw file content to the gateway as multipart form data and
// returns the task identifier assigned by the gateway.
func (c *Client) Process(ctx context.Context, projectID, filename string, file io.Reader) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return "", fmt.Errorf("copy file content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	reqURL := c.baseURL + "/process?project_id=" + url.QueryEscape(projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.dispatch(req, "process")
}

// ProcessStored dispatches an object-storage pointer instead of file content.
func (c *Client) ProcessStored(ctx context.Context, projectID, storagePath, filename string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	payload := map[string]any{
		"input": map[string]any{
			"project_id":   projectID,
			"s3_file_path": storagePath,
			"filename":     filename,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process/stored", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.dispatch(req, "process_stored")
}

func (c *Client) dispatch(req *http.Request, operation string) (string, error) {
	start := time.Now()
	resp, err := c.dispatchClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Printf("[error] operation=%s error=%v", operation, err)
		recordCall(duration, err)
		return "", fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		log.Printf("[warn] operation=%s message=gateway returned status %d", operation, resp.StatusCode)
		recordCall(duration, fmt.Errorf("status %d", resp.StatusCode))
		return "", fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	recordCall(duration, nil)

	var task taskResponse
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return "", fmt.Errorf("decode JSON: %w", err)
	}
	if task.taskID() == "" {
		return "", fmt.Errorf("gateway response missing task id")
	}
	return task.taskID(), nil
}

// TaskStatus looks up a processing task by identifier. The raw response is
// returned so handlers can proxy it verbatim.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*http.Response, error) {
	reqURL := c.baseURL + "/tasks/" + url.PathEscape(taskID) + "/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.defaultClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Printf("[error] operation=task_status error=%v", err)
		recordCall(duration, err)
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		recordCall(duration, fmt.Errorf("status %d", resp.StatusCode))
	} else {
		recordCall(duration, nil)
	}
	return resp, nil
}

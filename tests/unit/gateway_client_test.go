package unit

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/docuflow/docuflow-backend/internal/gateway"
)

func TestGatewayClient_Process(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("project_id") != "proj-1" {
			t.Errorf("unexpected project_id: %s", r.URL.Query().Get("project_id"))
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("expected multipart file: %v", err)
		}
		defer file.Close()
		if header.Filename != "report.pdf" {
			t.Errorf("unexpected filename: %s", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "file-content" {
			t.Errorf("unexpected content: %s", content)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"task_id": "task-42"}`))
	}))
	defer server.Close()

	client := gateway.NewClient(server.URL, 0, 0)
	ctx := context.Background()

	taskID, err := client.Process(ctx, "proj-1", "report.pdf", strings.NewReader("file-content"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskID != "task-42" {
		t.Errorf("expected task-42, got %s", taskID)
	}
}

func TestGatewayClient_Process_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := gateway.NewClient(server.URL, 0, 0)

	_, err := client.Process(context.Background(), "proj-1", "report.pdf", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestGatewayClient_ProcessStored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process/stored" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"s3_file_path":"s3://bucket/key"`) {
			t.Errorf("missing storage pointer in body: %s", body)
		}
		w.WriteHeader(http.StatusOK)
		// Some gateways answer with "id" rather than "task_id".
		w.Write([]byte(`{"id": "task-7"}`))
	}))
	defer server.Close()

	client := gateway.NewClient(server.URL, 0, 0)

	taskID, err := client.ProcessStored(context.Background(), "proj-1", "s3://bucket/key", "report.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskID != "task-7" {
		t.Errorf("expected task-7, got %s", taskID)
	}
}

func TestGatewayClient_ProcessStored_MissingTaskID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := gateway.NewClient(server.URL, 0, 0)

	_, err := client.ProcessStored(context.Background(), "proj-1", "s3://bucket/key", "report.pdf")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestGatewayClient_TaskStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tasks/task-42/status" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"state": "running"}`))
	}))
	defer server.Close()

	client := gateway.NewClient(server.URL, 0, 0)

	resp, err := client.TaskStatus(context.Background(), "task-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestGatewayClient_TaskStatus_Unreachable(t *testing.T) {
	client := gateway.NewClient("http://invalid-url-that-does-not-exist", 0, 0)

	resp, err := client.TaskStatus(context.Background(), "task-42")
	if err == nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatal("expected error, got nil")
	}
}

func TestGatewayClient_Metrics(t *testing.T) {
	gateway.ResetMetrics()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"task_id": "t"}`))
	}))
	defer server.Close()

	client := gateway.NewClient(server.URL, 0, 0)
	if _, err := client.Process(context.Background(), "p", "a.pdf", strings.NewReader("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls, errs, _ := gateway.Snapshot()
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if errs != 0 {
		t.Errorf("expected 0 errors, got %d", errs)
	}
}

package unit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mirrordomain "github.com/docuflow/docuflow-backend/internal/mirror/domain"
	"github.com/docuflow/docuflow-backend/internal/projects/domain"
	projectshttp "github.com/docuflow/docuflow-backend/internal/projects/http"
	"github.com/docuflow/docuflow-backend/internal/projects/service"
)

type fakeProjectStore struct {
	projects map[string]*domain.Project
	creates  int
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: map[string]*domain.Project{}}
}

func (f *fakeProjectStore) Create(_ context.Context, req *domain.CreateProjectRequest) (*domain.Project, error) {
	if req.Name == "" || req.Schema == "" {
		return nil, domain.ErrInvalidProject
	}
	f.creates++
	p := &domain.Project{
		ID:          "11111111-1111-1111-1111-111111111111",
		Name:        req.Name,
		Description: req.Description,
		Schema:      req.Schema,
	}
	f.projects[p.ID] = p
	return p, nil
}

func (f *fakeProjectStore) List(context.Context) ([]domain.Project, error) {
	out := make([]domain.Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProjectStore) Get(_ context.Context, id string) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectStore) Update(_ context.Context, id string, req *domain.UpdateProjectRequest) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	p.Name, p.Description, p.Schema = req.Name, req.Description, req.Schema
	cp := *p
	return &cp, nil
}

func (f *fakeProjectStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := f.projects[id]; !ok {
		return false, nil
	}
	delete(f.projects, id)
	return true, nil
}

func (f *fakeProjectStore) CountProposals(context.Context, string) (int64, error) {
	return 0, nil
}

func (f *fakeProjectStore) ProposalCounts(context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

// failingMirror simulates a secondary-store outage: every call errors.
type failingMirror struct {
	pending []string
}

func (m *failingMirror) Upsert(context.Context, *mirrordomain.Record) error {
	return errors.New("mirror down")
}

func (m *failingMirror) Get(context.Context, string) (*mirrordomain.Record, error) {
	return nil, errors.New("mirror down")
}

func (m *failingMirror) Delete(context.Context, string) error {
	return errors.New("mirror down")
}

func (m *failingMirror) MarkPending(_ context.Context, projectID string) error {
	m.pending = append(m.pending, projectID)
	return nil
}

func setupProjectRouter(store *fakeProjectStore, mirror service.MirrorStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := projectshttp.New(service.NewProjectService(store, mirror))
	h.Register(r.Group("/api/v1/projects"))
	return r
}

func TestCreateProject_MissingFields(t *testing.T) {
	store := newFakeProjectStore()
	router := setupProjectRouter(store, &failingMirror{})

	for name, body := range map[string]string{
		"missing name":   `{"schema": "{\"date\":\"string\"}"}`,
		"missing schema": `{"name": "Invoices"}`,
		"blank name":     `{"name": "  ", "schema": "{}"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/projects", bytes.NewBufferString(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	// Nothing was persisted for any of the rejected requests.
	assert.Equal(t, 0, store.creates)
}

func TestCreateProject_Success_MirrorDown(t *testing.T) {
	store := newFakeProjectStore()
	mirror := &failingMirror{}
	router := setupProjectRouter(store, mirror)

	body := `{"name": "Invoices", "description": "invoice batch", "schema": "{\"date\":\"string\"}"}`
	req := httptest.NewRequest("POST", "/api/v1/projects", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		OK      bool           `json:"ok"`
		Project domain.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.NotEmpty(t, resp.Project.ID)
	assert.Equal(t, "Invoices", resp.Project.Name)

	// The failed mirror write was queued for reconciliation.
	assert.Equal(t, []string{resp.Project.ID}, mirror.pending)
}

func TestListProjects_MirrorOutage(t *testing.T) {
	store := newFakeProjectStore()
	_, err := store.Create(context.Background(), &domain.CreateProjectRequest{
		Name:   "Invoices",
		Schema: `{"date":"string"}`,
	})
	require.NoError(t, err)

	router := setupProjectRouter(store, &failingMirror{})

	req := httptest.NewRequest("GET", "/api/v1/projects", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	// Mirror outage never fails the request; base fields still come back.
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		OK       bool             `json:"ok"`
		Projects []domain.Project `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, "Invoices", resp.Projects[0].Name)
	assert.Equal(t, `{"date":"string"}`, resp.Projects[0].Schema)
}

func TestGetProject_NotFound(t *testing.T) {
	router := setupProjectRouter(newFakeProjectStore(), &failingMirror{})

	req := httptest.NewRequest("GET", "/api/v1/projects/22222222-2222-2222-2222-222222222222", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetProject_MalformedID(t *testing.T) {
	router := setupProjectRouter(newFakeProjectStore(), &failingMirror{})

	req := httptest.NewRequest("GET", "/api/v1/projects/not-a-uuid", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteProject_NotFound(t *testing.T) {
	router := setupProjectRouter(newFakeProjectStore(), &failingMirror{})

	req := httptest.NewRequest("DELETE", "/api/v1/projects/22222222-2222-2222-2222-222222222222", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

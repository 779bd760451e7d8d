package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/docuflow/docuflow-backend/internal/api/http"
	"github.com/docuflow/docuflow-backend/internal/api/http/middleware"
	"github.com/docuflow/docuflow-backend/internal/gateway"
	gatewayhttp "github.com/docuflow/docuflow-backend/internal/gateway/http"
	mirrorrepo "github.com/docuflow/docuflow-backend/internal/mirror/repository"
	projectshttp "github.com/docuflow/docuflow-backend/internal/projects/http"
	projectsrepo "github.com/docuflow/docuflow-backend/internal/projects/repository"
	projectssvc "github.com/docuflow/docuflow-backend/internal/projects/service"
	proposalshttp "github.com/docuflow/docuflow-backend/internal/proposals/http"
	proposalsrepo "github.com/docuflow/docuflow-backend/internal/proposals/repository"
	proposalssvc "github.com/docuflow/docuflow-backend/internal/proposals/service"
	"github.com/docuflow/docuflow-backend/internal/storage/objectstore"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Store       *objectstore.Store
	Gateway     *gateway.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	projectRepo := projectsrepo.New(dep.DB)
	mirrorRepo := mirrorrepo.NewMirrorRepository(dep.Redis)
	proposalRepo := proposalsrepo.New(dep.DB)

	projectSvc := projectssvc.NewProjectService(projectRepo, mirrorRepo)
	uploadSvc := proposalssvc.NewUploadService(proposalRepo, projectRepo, dep.Store, dep.Gateway)

	projectshttp.New(projectSvc).Register(api.Group("/projects"))
	proposalshttp.New(uploadSvc, dep.Store, dep.Gateway).Register(api.Group("/proposals"))
	gatewayhttp.New(dep.Gateway).Register(api.Group("/tasks"))

	return r
}

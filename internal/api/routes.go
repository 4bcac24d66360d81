package api

import (
	"net/http"

	"github.com/JenosKanjiro/social-support-agent/internal/config"
	"github.com/JenosKanjiro/social-support-agent/internal/workflow"
	"github.com/JenosKanjiro/social-support-agent/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		workflow.NewHandler(domain.Sessions, runtime.Logger).Routes(),
		domain.Applicants.Handler().Routes(),
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
	)
}

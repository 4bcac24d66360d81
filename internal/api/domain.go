package api

import (
	"fmt"

	"github.com/JenosKanjiro/social-support-agent/internal/applicants"
	"github.com/JenosKanjiro/social-support-agent/internal/checkpoints"
	"github.com/JenosKanjiro/social-support-agent/internal/documents"
	"github.com/JenosKanjiro/social-support-agent/internal/extraction"
	"github.com/JenosKanjiro/social-support-agent/internal/generation"
	"github.com/JenosKanjiro/social-support-agent/internal/inference"
	"github.com/JenosKanjiro/social-support-agent/internal/retrieval"
	"github.com/JenosKanjiro/social-support-agent/internal/workflow"
	wf "github.com/JenosKanjiro/social-support-agent/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Applicants applicants.System
	Documents  documents.System
	Sessions   *workflow.Sessions
}

// NewDomain creates all domain systems from the API runtime: the language
// model collaborators, the workflow engine, and the relational domains.
func NewDomain(runtime *Runtime) (*Domain, error) {
	cfg := runtime.Config
	logger := runtime.Logger
	db := runtime.Database.Connection()
	timeout := cfg.Services.TimeoutDuration()

	gen, err := generation.NewService(&cfg.Agent.AgentConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("generation init failed: %w", err)
	}

	retrieve := retrieval.NewService(cfg.Services.RetrievalURL, timeout, logger)

	extract, err := extraction.NewService(
		runtime.Storage,
		&cfg.Agent.AgentConfig,
		extraction.NewTextClient(cfg.Services.ExtractionURL, timeout),
		retrieve,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("extraction init failed: %w", err)
	}

	decide := inference.NewService(
		inference.NewModelClient(cfg.Services.InferenceURL, timeout),
		gen,
		logger,
	)

	rt := &workflow.Runtime{
		Extraction:          extract,
		Validation:          gen,
		Decisions:           decide,
		Generation:          gen,
		Retrieval:           retrieve,
		Routing:             gen,
		Logger:              logger,
		ValidationThreshold: cfg.Workflow.ValidationThreshold,
		CallTimeout:         cfg.Workflow.CallTimeoutDuration(),
	}

	engine, err := workflow.NewEngine(
		[]wf.Step{
			workflow.NewSupervisor(rt),
			workflow.NewExtractor(rt),
			workflow.NewValidator(rt),
			workflow.NewDecisionMaker(rt),
			workflow.NewRecommender(rt),
			workflow.NewChatbot(rt),
		},
		checkpoints.NewStore(db, logger),
		logger,
		cfg.Workflow.MaxSteps,
	)
	if err != nil {
		return nil, fmt.Errorf("engine init failed: %w", err)
	}

	applicantsSystem := applicants.New(db, logger, runtime.Pagination)
	documentsSystem := documents.New(db, runtime.Storage, logger, runtime.Pagination)

	return &Domain{
		Applicants: applicantsSystem,
		Documents:  documentsSystem,
		Sessions:   workflow.NewSessions(engine, applicantsSystem, logger),
	}, nil
}

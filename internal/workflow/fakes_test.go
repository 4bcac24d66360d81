package workflow_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	engine "github.com/JenosKanjiro/social-support-agent/internal/workflow"
	"github.com/JenosKanjiro/social-support-agent/workflow"
)

type fakeExtraction struct {
	extractCalls int
	extractFn    func(map[workflow.DocumentKind]string) (workflow.ExtractedData, error)

	loadCalls int
	loadFn    func(string) (workflow.ExtractedData, error)

	storeCalls int
	storeFn    func(string, workflow.ExtractedData) error
}

func (f *fakeExtraction) Extract(_ context.Context, paths map[workflow.DocumentKind]string) (workflow.ExtractedData, error) {
	f.extractCalls++
	if f.extractFn != nil {
		return f.extractFn(paths)
	}
	return workflow.ExtractedData{EmiratesID: "id text", BankStatement: "bank text"}, nil
}

func (f *fakeExtraction) LoadCached(_ context.Context, locator string) (workflow.ExtractedData, error) {
	f.loadCalls++
	if f.loadFn != nil {
		return f.loadFn(locator)
	}
	return workflow.ExtractedData{}, nil
}

func (f *fakeExtraction) StoreCache(_ context.Context, locator string, extracts workflow.ExtractedData) error {
	f.storeCalls++
	if f.storeFn != nil {
		return f.storeFn(locator, extracts)
	}
	return nil
}

type fakeValidation struct {
	calls int
	fn    func(workflow.ApplicationData, workflow.ExtractedData) (workflow.ValidationReport, error)
}

func (f *fakeValidation) Validate(_ context.Context, data workflow.ApplicationData, extracts workflow.ExtractedData) (workflow.ValidationReport, error) {
	f.calls++
	if f.fn != nil {
		return f.fn(data, extracts)
	}
	return workflow.ValidationReport{OverallScore: 0.8, Summary: "consistent"}, nil
}

type fakeDecisions struct {
	calls int
	fn    func(workflow.ApplicationData) (workflow.Decision, error)
}

func (f *fakeDecisions) PredictEligibility(_ context.Context, data workflow.ApplicationData) (workflow.Decision, error) {
	f.calls++
	if f.fn != nil {
		return f.fn(data)
	}
	return workflow.Decision{Label: "Declined", Reason: "insufficient need"}, nil
}

type fakeGeneration struct {
	calls     int
	templates []string
	vars      []map[string]string
	fn        func(string, map[string]string) (string, error)
}

func (f *fakeGeneration) Generate(_ context.Context, templateID string, vars map[string]string) (string, error) {
	f.calls++
	f.templates = append(f.templates, templateID)
	f.vars = append(f.vars, vars)
	if f.fn != nil {
		return f.fn(templateID, vars)
	}
	return "generated text", nil
}

type fakeRetrieval struct {
	calls int
	fn    func(string) ([]string, error)
}

func (f *fakeRetrieval) RetrieveContext(_ context.Context, query string) ([]string, error) {
	f.calls++
	if f.fn != nil {
		return f.fn(query)
	}
	return []string{"support context"}, nil
}

type fakeRouting struct {
	calls int
	fn    func(string, []workflow.Message) (string, string, error)
}

func (f *fakeRouting) Decide(_ context.Context, instruction string, messages []workflow.Message) (string, string, error) {
	f.calls++
	if f.fn != nil {
		return f.fn(instruction, messages)
	}
	return "extractor", "Starting extraction.", nil
}

type fakeRecorder struct {
	calls  int
	states []workflow.State
	err    error
}

func (f *fakeRecorder) Record(_ context.Context, state workflow.State) error {
	f.calls++
	f.states = append(f.states, state)
	return f.err
}

type fakes struct {
	extraction *fakeExtraction
	validation *fakeValidation
	decisions  *fakeDecisions
	generation *fakeGeneration
	retrieval  *fakeRetrieval
	routing    *fakeRouting
}

func newTestRuntime() (*engine.Runtime, *fakes) {
	f := &fakes{
		extraction: &fakeExtraction{},
		validation: &fakeValidation{},
		decisions:  &fakeDecisions{},
		generation: &fakeGeneration{},
		retrieval:  &fakeRetrieval{},
		routing:    &fakeRouting{},
	}

	rt := &engine.Runtime{
		Extraction:          f.extraction,
		Validation:          f.validation,
		Decisions:           f.decisions,
		Generation:          f.generation,
		Retrieval:           f.retrieval,
		Routing:             f.routing,
		Logger:              discardLogger(),
		ValidationThreshold: 0.5,
	}

	return rt, f
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func allSteps(rt *engine.Runtime) []workflow.Step {
	return []workflow.Step{
		engine.NewSupervisor(rt),
		engine.NewExtractor(rt),
		engine.NewValidator(rt),
		engine.NewDecisionMaker(rt),
		engine.NewRecommender(rt),
		engine.NewChatbot(rt),
	}
}

func newTestEngine(t *testing.T, rt *engine.Runtime, store workflow.CheckpointStore) *engine.Engine {
	t.Helper()

	e, err := engine.NewEngine(allSteps(rt), store, discardLogger(), 0)
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	return e
}

func submissionDocuments() map[workflow.DocumentKind]string {
	paths := make(map[workflow.DocumentKind]string)
	for _, kind := range workflow.DocumentKinds() {
		paths[kind] = "documents/a1/" + string(kind) + "/file"
	}
	return paths
}

func sampleApplication() workflow.ApplicationData {
	return workflow.ApplicationData{
		ApplicantID:    "a1",
		FullName:       "Test Applicant",
		MonthlyIncome:  2500,
		Assets:         10000,
		Liabilities:    4000,
		HouseholdSize:  4,
		Age:            37,
		EducationLevel: "high school",
		MaritalStatus:  "Married",
	}
}

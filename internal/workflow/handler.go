package workflow

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JenosKanjiro/social-support-agent/pkg/handlers"
	"github.com/JenosKanjiro/social-support-agent/pkg/routes"
	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// Handler exposes the session entry points over HTTP.
type Handler struct {
	sessions *Sessions
	logger   *slog.Logger
}

// NewHandler creates a Handler for the given sessions.
func NewHandler(sessions *Sessions, logger *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		logger:   logger.With("handler", "sessions"),
	}
}

// Routes returns the route group definition for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/applications", Handler: h.SubmitApplication},
			{Method: "POST", Pattern: "/chat", Handler: h.SendChatMessage},
			{Method: "GET", Pattern: "/{threadID}/history", Handler: h.History},
		},
	}
}

// SubmitApplicationRequest carries an application submission. ThreadID is
// optional; a new thread is started when absent. Documents maps document
// kinds to storage keys previously uploaded via the documents endpoint.
type SubmitApplicationRequest struct {
	ThreadID             string                           `json:"thread_id,omitempty"`
	ApplicationData      workflow.ApplicationData         `json:"application_data"`
	Documents            map[workflow.DocumentKind]string `json:"documents"`
	CachedExtractionPath string                           `json:"cached_extraction_path,omitempty"`
}

// SubmitApplicationResponse reports the pipeline outcome for a submission.
type SubmitApplicationResponse struct {
	ThreadID        string            `json:"thread_id"`
	Decision        workflow.Decision `json:"decision"`
	Recommendations string            `json:"recommendations"`
	Outcome         string            `json:"outcome"`
}

// SubmitApplication runs the application pipeline and reports the outcome.
func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req SubmitApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := validateSubmission(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if req.ThreadID == "" {
		req.ThreadID = uuid.NewString()
	}
	if req.ApplicationData.ApplicantID == "" {
		req.ApplicationData.ApplicantID = uuid.NewString()
	}

	final, err := h.sessions.SubmitApplication(
		r.Context(),
		req.ThreadID,
		req.ApplicationData,
		req.Documents,
		req.CachedExtractionPath,
	)
	if err != nil {
		handlers.RespondError(w, h.logger, mapHTTPStatus(err), err)
		return
	}

	outcome := ""
	if last, ok := final.LastMessage(); ok {
		outcome = last.Content
	}

	handlers.RespondJSON(w, http.StatusOK, SubmitApplicationResponse{
		ThreadID:        final.ThreadID,
		Decision:        final.Decision,
		Recommendations: final.Recommendations,
		Outcome:         outcome,
	})
}

// ChatRequest carries one user chat message.
type ChatRequest struct {
	ThreadID string `json:"thread_id,omitempty"`
	Message  string `json:"message"`
}

// ChatResponse carries the system reply for a chat message.
type ChatResponse struct {
	ThreadID string `json:"thread_id"`
	Reply    string `json:"reply"`
}

// SendChatMessage routes a chat message through the workflow and returns the reply.
func (h *Handler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if req.Message == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyMessage)
		return
	}
	if req.Message == workflow.StartApplicationToken {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrReservedMessage)
		return
	}
	if req.ThreadID == "" {
		req.ThreadID = uuid.NewString()
	}

	_, reply, err := h.sessions.SendChatMessage(r.Context(), req.ThreadID, req.Message)
	if err != nil {
		handlers.RespondError(w, h.logger, mapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ChatResponse{
		ThreadID: req.ThreadID,
		Reply:    reply,
	})
}

// History returns the thread's checkpoint lineage, oldest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("threadID")

	states, err := h.sessions.History(r.Context(), threadID)
	if err != nil {
		handlers.RespondError(w, h.logger, mapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, states)
}

func validateSubmission(req *SubmitApplicationRequest) error {
	if req.ApplicationData.Empty() {
		return ErrMissingApplication
	}
	for _, kind := range workflow.DocumentKinds() {
		if req.Documents[kind] == "" {
			return ErrMissingDocuments
		}
	}
	return nil
}

func mapHTTPStatus(err error) int {
	if errors.Is(err, workflow.ErrStoreUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

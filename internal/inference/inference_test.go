package inference_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JenosKanjiro/social-support-agent/internal/inference"
	"github.com/JenosKanjiro/social-support-agent/workflow"
)

type fakeReasons struct {
	calls int
	fn    func(workflow.ApplicationData, string) (string, error)
}

func (f *fakeReasons) EligibilityReason(_ context.Context, data workflow.ApplicationData, label string) (string, error) {
	f.calls++
	if f.fn != nil {
		return f.fn(data, label)
	}
	return "reason for " + label, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestModelClientPredict(t *testing.T) {
	t.Run("sends the financial profile", func(t *testing.T) {
		var received map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/predict" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
				t.Errorf("decode request: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]string{"label": "Declined"})
		}))
		defer server.Close()

		client := inference.NewModelClient(server.URL, time.Second)
		label, err := client.Predict(context.Background(), workflow.ApplicationData{
			MonthlyIncome:  2500,
			HouseholdSize:  4,
			MaritalStatus:  "Married",
			EducationLevel: "high school",
		})
		if err != nil {
			t.Fatalf("Predict error: %v", err)
		}
		if label != "Declined" {
			t.Errorf("unexpected label: %q", label)
		}
		if received["monthly_income"] != 2500.0 || received["household_size"] != 4.0 {
			t.Errorf("unexpected request body: %v", received)
		}
		if received["marital_status"] != "Married" {
			t.Errorf("unexpected request body: %v", received)
		}
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := inference.NewModelClient(server.URL, time.Second)
		if _, err := client.Predict(context.Background(), workflow.ApplicationData{}); err == nil {
			t.Error("expected error for 500 response")
		}
	})
}

func TestPredictEligibility(t *testing.T) {
	newServer := func(t *testing.T, label string) *httptest.Server {
		t.Helper()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"label": label})
		}))
		t.Cleanup(server.Close)
		return server
	}

	t.Run("combines label and reason", func(t *testing.T) {
		server := newServer(t, workflow.LabelFinancialOnly)
		reasons := &fakeReasons{}

		svc := inference.NewService(
			inference.NewModelClient(server.URL, time.Second),
			reasons, discardLogger(),
		)

		decision, err := svc.PredictEligibility(context.Background(), workflow.ApplicationData{MonthlyIncome: 1200})
		if err != nil {
			t.Fatalf("PredictEligibility error: %v", err)
		}
		if decision.Label != workflow.LabelFinancialOnly {
			t.Errorf("unexpected label: %q", decision.Label)
		}
		if decision.Reason != "reason for "+workflow.LabelFinancialOnly {
			t.Errorf("unexpected reason: %q", decision.Reason)
		}
		if reasons.calls != 1 {
			t.Errorf("expected one reason call, got %d", reasons.calls)
		}
	})

	t.Run("reason failure fails the prediction", func(t *testing.T) {
		server := newServer(t, "Declined")
		reasons := &fakeReasons{fn: func(workflow.ApplicationData, string) (string, error) {
			return "", fmt.Errorf("model unavailable")
		}}

		svc := inference.NewService(
			inference.NewModelClient(server.URL, time.Second),
			reasons, discardLogger(),
		)

		_, err := svc.PredictEligibility(context.Background(), workflow.ApplicationData{})
		if !errors.Is(err, inference.ErrPredictFailed) {
			t.Errorf("expected ErrPredictFailed, got %v", err)
		}
	})

	t.Run("model failure fails the prediction", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		reasons := &fakeReasons{}
		svc := inference.NewService(
			inference.NewModelClient(server.URL, time.Second),
			reasons, discardLogger(),
		)

		_, err := svc.PredictEligibility(context.Background(), workflow.ApplicationData{})
		if !errors.Is(err, inference.ErrPredictFailed) {
			t.Errorf("expected ErrPredictFailed, got %v", err)
		}
		if reasons.calls != 0 {
			t.Error("reason generation must not run after a model failure")
		}
	})
}

package extraction_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JenosKanjiro/social-support-agent/internal/extraction"
)

func TestExtractText(t *testing.T) {
	t.Run("uploads the file and returns text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/extract" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}

			file, header, err := r.FormFile("file")
			if err != nil {
				t.Fatalf("missing file part: %v", err)
			}
			defer file.Close()

			if header.Filename != "statement.pdf" {
				t.Errorf("unexpected filename: %q", header.Filename)
			}
			data, _ := io.ReadAll(file)
			if string(data) != "pdf bytes" {
				t.Errorf("unexpected payload: %q", data)
			}

			json.NewEncoder(w).Encode(map[string]string{"text": "extracted statement"})
		}))
		defer server.Close()

		client := extraction.NewTextClient(server.URL, time.Second)
		text, err := client.ExtractText(context.Background(), "statement.pdf", []byte("pdf bytes"))
		if err != nil {
			t.Fatalf("ExtractText error: %v", err)
		}
		if text != "extracted statement" {
			t.Errorf("unexpected text: %q", text)
		}
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := extraction.NewTextClient(server.URL, time.Second)
		if _, err := client.ExtractText(context.Background(), "f.pdf", nil); err == nil {
			t.Error("expected error for 500 response")
		}
	})
}

// Package documents implements the applicant document domain. It provides
// types, data access, and upload handling for the five document kinds a
// social support application requires.
package documents

import (
	"time"

	"github.com/google/uuid"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// Document represents an uploaded applicant document with its metadata
// and blob storage reference.
type Document struct {
	ID          uuid.UUID             `json:"id"`
	ApplicantID string                `json:"applicant_id"`
	Kind        workflow.DocumentKind `json:"kind"`
	Filename    string                `json:"filename"`
	ContentType string                `json:"content_type"`
	SizeBytes   int64                 `json:"size_bytes"`
	PageCount   *int                  `json:"page_count"`
	StorageKey  string                `json:"storage_key"`
	UploadedAt  time.Time             `json:"uploaded_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and register a new
// document. Data holds the raw file bytes. PageCount is optional and may
// be extracted by the caller via pdfcpu; nil values are stored as NULL.
type CreateCommand struct {
	Data        []byte
	Filename    string
	ContentType string
	ApplicantID string
	Kind        workflow.DocumentKind
	PageCount   *int
}

// ValidKind reports whether kind names one of the required document kinds.
func ValidKind(kind workflow.DocumentKind) bool {
	for _, k := range workflow.DocumentKinds() {
		if k == kind {
			return true
		}
	}
	return false
}

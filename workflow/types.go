// Package workflow defines the foundational types for the social support
// application workflow: the canonical thread state, the patch/merge model,
// the step contract, sentinel messages, and the checkpoint store contract.
package workflow

// SpeakerUser tags a raw user utterance in the message sequence.
// Every other speaker value is the name of the step that produced the record.
const SpeakerUser = "user"

// StartApplicationToken is the sentinel content that marks a pipeline-mode
// submission. Any other user content routes to the chatbot.
const StartApplicationToken = "CODE-STARTAPPLICATION"

// Message is one routing record in a thread's message sequence.
type Message struct {
	Speaker string `json:"speaker"`
	Content string `json:"content"`
}

// DocumentKind identifies one of the five required submission documents.
type DocumentKind string

// Required document kinds for an application submission.
const (
	DocEmiratesID        DocumentKind = "emirates_id"
	DocBankStatement     DocumentKind = "bank_statement"
	DocCreditReport      DocumentKind = "credit_report"
	DocResume            DocumentKind = "resume"
	DocAssetsLiabilities DocumentKind = "assets_liabilities"
)

// DocumentKinds returns all required document kinds in submission order.
func DocumentKinds() []DocumentKind {
	return []DocumentKind{
		DocEmiratesID,
		DocBankStatement,
		DocCreditReport,
		DocResume,
		DocAssetsLiabilities,
	}
}

// ApplicationData holds the applicant-submitted identity, financial, and
// household fields. Set once at submission time; immutable within a thread
// outside the pipeline entry point.
type ApplicationData struct {
	ApplicantID    string  `json:"applicant_id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	FullName       string  `json:"full_name"`
	DateOfBirth    string  `json:"date_of_birth"`
	Gender         string  `json:"gender"`
	Nationality    string  `json:"nationality"`
	EmiratesID     string  `json:"emirates_id"`
	Address        string  `json:"address"`
	MonthlyIncome  float64 `json:"monthly_income"`
	Assets         float64 `json:"assets"`
	Liabilities    float64 `json:"liabilities"`
	HouseholdSize  int     `json:"household_size"`
	Age            int     `json:"age"`
	EducationLevel string  `json:"education_level"`
	MaritalStatus  string  `json:"marital_status"`
}

// Empty reports whether no application data has been submitted.
func (a ApplicationData) Empty() bool {
	return a == ApplicationData{}
}

// ExtractedData holds the per-document text extracts produced by the
// extraction collaborator.
type ExtractedData struct {
	EmiratesID        string `json:"emirates_id_extract"`
	BankStatement     string `json:"bank_statement_extract"`
	CreditReport      string `json:"credit_report_extract"`
	Resume            string `json:"resume_extract"`
	AssetsLiabilities string `json:"assets_liabilities_extract"`
}

// Empty reports whether no extraction result is present.
func (e ExtractedData) Empty() bool {
	return e == ExtractedData{}
}

// FieldValidation records the cross-document consistency check for one field.
type FieldValidation struct {
	Field                string   `json:"field"`
	Valid                bool     `json:"is_valid"`
	SourceDocuments      []string `json:"source_documents"`
	ValuesFound          []string `json:"values_found"`
	InconsistencyDetails string   `json:"inconsistency_details,omitempty"`
	SuggestedCorrection  string   `json:"suggested_correction,omitempty"`
}

// ValidationReport is the structured evidence returned by the validation
// collaborator. OverallScore is in [0,1]; the validator step applies the
// configured pass threshold to it.
type ValidationReport struct {
	Fields        []FieldValidation `json:"field_validations"`
	MissingFields []string          `json:"missing_required_fields"`
	OverallScore  float64           `json:"overall_validation_score"`
	Summary       string            `json:"validation_summary"`
}

// Empty reports whether the report carries no findings.
func (r ValidationReport) Empty() bool {
	return len(r.Fields) == 0 && len(r.MissingFields) == 0 &&
		r.OverallScore == 0 && r.Summary == ""
}

// Decision is the eligibility outcome produced by the decision collaborator.
type Decision struct {
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

// Empty reports whether no decision has been made.
func (d Decision) Empty() bool {
	return d == Decision{}
}

// State is the canonical workflow record for one thread. It is extended by
// patches merged by the engine; steps never mutate it directly.
type State struct {
	ThreadID             string                  `json:"thread_id"`
	Messages             []Message               `json:"messages"`
	ApplicationData      ApplicationData         `json:"application_data"`
	ExtractionPaths      map[DocumentKind]string `json:"extraction_paths,omitempty"`
	CachedExtractionPath string                  `json:"cached_extraction_path,omitempty"`
	ExtractedData        ExtractedData           `json:"extracted_data"`
	ValidationResult     ValidationReport        `json:"validation_result"`
	Decision             Decision                `json:"decision"`
	ChatLog              []string                `json:"chat_conversation_log,omitempty"`
	Recommendations      string                  `json:"recommendations"`
}

// LastMessage returns the newest message record, if any.
func (s *State) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// Clone returns a deep copy of the state. Steps receive clones so a patch
// computed off a stale read can never alias engine-owned memory.
func (s State) Clone() State {
	out := s

	if s.Messages != nil {
		out.Messages = make([]Message, len(s.Messages))
		copy(out.Messages, s.Messages)
	}

	if s.ExtractionPaths != nil {
		out.ExtractionPaths = make(map[DocumentKind]string, len(s.ExtractionPaths))
		for k, v := range s.ExtractionPaths {
			out.ExtractionPaths[k] = v
		}
	}

	if s.ChatLog != nil {
		out.ChatLog = make([]string, len(s.ChatLog))
		copy(out.ChatLog, s.ChatLog)
	}

	out.ValidationResult = s.ValidationResult.clone()
	return out
}

func (r ValidationReport) clone() ValidationReport {
	out := r

	if r.Fields != nil {
		out.Fields = make([]FieldValidation, len(r.Fields))
		for i, f := range r.Fields {
			out.Fields[i] = f
			if f.SourceDocuments != nil {
				out.Fields[i].SourceDocuments = append([]string(nil), f.SourceDocuments...)
			}
			if f.ValuesFound != nil {
				out.Fields[i].ValuesFound = append([]string(nil), f.ValuesFound...)
			}
		}
	}

	if r.MissingFields != nil {
		out.MissingFields = append([]string(nil), r.MissingFields...)
	}

	return out
}

package generation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/JenosKanjiro/social-support-agent/pkg/formatting"
	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// Wire shape of the model's validation response.
type validationResponse struct {
	Validations []workflow.FieldValidation `json:"document_extracts_validations"`
	Missing     []string                   `json:"document_extracts_missing_required_fields"`
	Overall     struct {
		Score   float64 `json:"overall_validation_score"`
		Summary string  `json:"validation_summary"`
	} `json:"document_extracts_overall_validation"`
}

// Validate cross-checks submitted application fields against the document
// extracts and returns the structured report.
func (s *Service) Validate(
	ctx context.Context,
	data workflow.ApplicationData,
	extracted workflow.ExtractedData,
) (workflow.ValidationReport, error) {
	prompt := render(validationTemplate, map[string]string{
		"application_data":     formatApplicationData(data),
		"document_extractions": formatExtractions(extracted),
	})

	content, err := s.chat(ctx, prompt)
	if err != nil {
		return workflow.ValidationReport{}, fmt.Errorf("%w: validation: %w", ErrGenerateFailed, err)
	}

	parsed, err := formatting.Parse[validationResponse](content)
	if err != nil {
		return workflow.ValidationReport{}, fmt.Errorf("%w: parse validation response: %w", ErrGenerateFailed, err)
	}

	report := workflow.ValidationReport{
		Fields:        parsed.Validations,
		MissingFields: parsed.Missing,
		OverallScore:  parsed.Overall.Score,
		Summary:       parsed.Overall.Summary,
	}

	s.logger.InfoContext(
		ctx, "validation complete",
		"score", report.OverallScore,
		"fields", len(report.Fields),
		"missing", len(report.MissingFields),
	)

	return report, nil
}

func formatApplicationData(data workflow.ApplicationData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "full_name: %s\n", data.FullName)
	fmt.Fprintf(&b, "monthly_income: %s\n", strconv.FormatFloat(data.MonthlyIncome, 'f', -1, 64))
	fmt.Fprintf(&b, "age: %d\n", data.Age)
	fmt.Fprintf(&b, "education_level: %s", data.EducationLevel)
	return b.String()
}

func formatExtractions(extracted workflow.ExtractedData) string {
	sections := []struct {
		label string
		text  string
	}{
		{"Emirates ID", extracted.EmiratesID},
		{"Bank Statement", extracted.BankStatement},
		{"Credit Report", extracted.CreditReport},
		{"Resume", extracted.Resume},
		{"Assets and Liabilities", extracted.AssetsLiabilities},
	}

	var b strings.Builder
	for _, section := range sections {
		fmt.Fprintf(&b, "%s:\n%s\n\n", section.label, section.text)
	}
	return strings.TrimSpace(b.String())
}

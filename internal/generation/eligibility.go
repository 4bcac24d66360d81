package generation

import (
	"context"
	"fmt"
	"strconv"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

const eligibilityTemplate = `You are the Eligibility Agent for a Social Security Application Processing System.
Your job is to assess the client application and the decision on their social support application, and describe the reason for the decision.

Verified application data:
monthly income = AED {monthly_income}
assets = AED {assets}
liabilities = AED {liabilities}
household size = {household_size} members
age = {age} years
highest education level = {education_level}
marital status = {marital_status}

Social Support Application Decision (Possible values: 'Financial Support Approved', 'Economic Enablement Approved', 'Both Financial and Economic Enablement Support Approved', 'Declined'):
{decision}

Respond with the reason only:`

// EligibilityReason explains a predicted eligibility label in terms of the
// applicant's submitted data.
func (s *Service) EligibilityReason(ctx context.Context, data workflow.ApplicationData, label string) (string, error) {
	prompt := render(eligibilityTemplate, map[string]string{
		"monthly_income":  strconv.FormatFloat(data.MonthlyIncome, 'f', -1, 64),
		"assets":          strconv.FormatFloat(data.Assets, 'f', -1, 64),
		"liabilities":     strconv.FormatFloat(data.Liabilities, 'f', -1, 64),
		"household_size":  strconv.Itoa(data.HouseholdSize),
		"age":             strconv.Itoa(data.Age),
		"education_level": data.EducationLevel,
		"marital_status":  data.MaritalStatus,
		"decision":        label,
	})

	reason, err := s.chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: eligibility reason: %w", ErrGenerateFailed, err)
	}

	return reason, nil
}

package workflow

import (
	"context"
	"strconv"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// Prompt template identifiers consumed by the generation collaborator.
const (
	TemplateRecommendation    = "recommendation"
	TemplateValidationFailure = "validation_failure"
	TemplateConversation      = "conversation"
)

// Recommender produces applicant guidance. Reached after a validation
// failure it generates remediation advice from the document extracts;
// reached after a decision it generates economic enablement
// recommendations from the decision and financial fields.
type Recommender struct {
	rt *Runtime
}

// NewRecommender creates the recommender step over the given runtime.
func NewRecommender(rt *Runtime) *Recommender {
	return &Recommender{rt: rt}
}

func (r *Recommender) Name() workflow.StepName {
	return workflow.StepRecommender
}

func (r *Recommender) Execute(ctx context.Context, state workflow.State) (workflow.Patch, workflow.Transition, error) {
	callCtx, cancel := r.rt.callCtx(ctx)
	defer cancel()

	templateID, vars, completion := r.shape(state)

	text, err := r.rt.Generation.Generate(callCtx, templateID, vars)
	if err != nil {
		r.rt.Logger.ErrorContext(ctx, "recommendation generation failed", "error", err)
		return workflow.Patch{
			Messages: []workflow.Message{{
				Speaker: string(workflow.StepRecommender),
				Content: workflow.MsgRecommenderFailed,
			}},
			Recommendations: workflow.StringPtr(""),
		}, workflow.Goto(workflow.StepSupervisor), nil
	}

	return workflow.Patch{
		Messages: []workflow.Message{{
			Speaker: string(workflow.StepRecommender),
			Content: completion,
		}},
		Recommendations: workflow.StringPtr(text),
	}, workflow.Goto(workflow.StepSupervisor), nil
}

// shape selects the template, variables, and completion sentinel for the
// path the recommender was reached on.
func (r *Recommender) shape(state workflow.State) (string, map[string]string, string) {
	last, ok := state.LastMessage()
	validationFailurePath := ok &&
		last.Speaker == string(workflow.StepValidator) &&
		last.Content == workflow.MsgValidationUnsuccessful

	if validationFailurePath {
		return TemplateValidationFailure, map[string]string{
			"emirates_id_extract":    state.ExtractedData.EmiratesID,
			"bank_statement_extract": state.ExtractedData.BankStatement,
			"resume_extract":         state.ExtractedData.Resume,
		}, workflow.MsgValidationPathComplete
	}

	data := state.ApplicationData
	return TemplateRecommendation, map[string]string{
		"decision":        state.Decision.Label,
		"reason":          state.Decision.Reason,
		"monthly_income":  strconv.FormatFloat(data.MonthlyIncome, 'f', -1, 64),
		"assets":          strconv.FormatFloat(data.Assets, 'f', -1, 64),
		"liabilities":     strconv.FormatFloat(data.Liabilities, 'f', -1, 64),
		"household_size":  strconv.Itoa(data.HouseholdSize),
		"age":             strconv.Itoa(data.Age),
		"education_level": data.EducationLevel,
		"marital_status":  data.MaritalStatus,
	}, workflow.MsgPipelineComplete
}

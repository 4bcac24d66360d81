package workflow

import (
	"context"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// Validator cross-checks application fields against document extracts and
// applies the configured pass threshold to the collaborator's overall score.
// A failing application still flows to the recommender so the applicant
// receives remediation guidance instead of a bare rejection.
type Validator struct {
	rt *Runtime
}

// NewValidator creates the validator step over the given runtime.
func NewValidator(rt *Runtime) *Validator {
	return &Validator{rt: rt}
}

func (v *Validator) Name() workflow.StepName {
	return workflow.StepValidator
}

func (v *Validator) Execute(ctx context.Context, state workflow.State) (workflow.Patch, workflow.Transition, error) {
	callCtx, cancel := v.rt.callCtx(ctx)
	defer cancel()

	report, err := v.rt.Validation.Validate(callCtx, state.ApplicationData, state.ExtractedData)
	if err != nil {
		v.rt.Logger.ErrorContext(ctx, "validation failed", "error", err)
		return workflow.Patch{
			Messages: []workflow.Message{{
				Speaker: string(workflow.StepValidator),
				Content: workflow.MsgValidationFailed,
			}},
			ValidationResult: &workflow.ValidationReport{},
		}, workflow.Goto(workflow.StepSupervisor), nil
	}

	if report.OverallScore >= v.rt.ValidationThreshold {
		v.rt.Logger.InfoContext(ctx, "validation passed", "score", report.OverallScore)
		return workflow.Patch{
			Messages: []workflow.Message{{
				Speaker: string(workflow.StepValidator),
				Content: workflow.MsgValidationComplete,
			}},
			ValidationResult: &report,
		}, workflow.Goto(workflow.StepDecisionMaker), nil
	}

	v.rt.Logger.InfoContext(ctx, "validation unsuccessful", "score", report.OverallScore)
	return workflow.Patch{
		Messages: []workflow.Message{{
			Speaker: string(workflow.StepValidator),
			Content: workflow.MsgValidationUnsuccessful,
		}},
		ValidationResult: &report,
	}, workflow.Goto(workflow.StepRecommender), nil
}

package workflow

import (
	"context"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// DecisionMaker predicts the eligibility outcome. A label exactly equal to
// the financial-only sentinel ends the pipeline at the supervisor; every
// other label — declined or any enablement-approved variant — continues to
// the recommender.
type DecisionMaker struct {
	rt *Runtime
}

// NewDecisionMaker creates the decision step over the given runtime.
func NewDecisionMaker(rt *Runtime) *DecisionMaker {
	return &DecisionMaker{rt: rt}
}

func (d *DecisionMaker) Name() workflow.StepName {
	return workflow.StepDecisionMaker
}

func (d *DecisionMaker) Execute(ctx context.Context, state workflow.State) (workflow.Patch, workflow.Transition, error) {
	callCtx, cancel := d.rt.callCtx(ctx)
	defer cancel()

	decision, err := d.rt.Decisions.PredictEligibility(callCtx, state.ApplicationData)
	if err != nil {
		d.rt.Logger.ErrorContext(ctx, "eligibility prediction failed", "error", err)
		return workflow.Patch{
			Messages: []workflow.Message{{
				Speaker: string(workflow.StepDecisionMaker),
				Content: workflow.MsgDecisionFailed,
			}},
			Decision: &workflow.Decision{},
		}, workflow.Goto(workflow.StepSupervisor), nil
	}

	if decision.Label == workflow.LabelFinancialOnly {
		d.rt.Logger.InfoContext(ctx, "decision made", "label", decision.Label, "terminal", true)
		return workflow.Patch{
			Messages: []workflow.Message{{
				Speaker: string(workflow.StepDecisionMaker),
				Content: workflow.MsgDecisionFinancialOnly,
			}},
			Decision: &decision,
		}, workflow.Goto(workflow.StepSupervisor), nil
	}

	d.rt.Logger.InfoContext(ctx, "decision made", "label", decision.Label)
	return workflow.Patch{
		Messages: []workflow.Message{{
			Speaker: string(workflow.StepDecisionMaker),
			Content: workflow.MsgDecisionMade,
		}},
		Decision: &decision,
	}, workflow.Goto(workflow.StepRecommender), nil
}

package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// routingInstruction is the fixed system instruction for the dynamic
// routing fallback. It enumerates the downstream steps the decision may
// choose from; the extractor is currently the only candidate.
const routingInstruction = `**Team Members**:
1. **Extractor** - Always prefer this first. Extracts details to be used by subsequent workers.

**Your Responsibilities**:
1. Analyze each user request and agent response for completeness, accuracy, and relevance.
2. Route the task to the most appropriate agent at each decision point.
3. Maintain workflow momentum by avoiding redundant agent assignments.
4. Continue the process until the user's request is fully and satisfactorily resolved.
Return output as JSON as follows:
- next: name of the worker node, like extractor, etc.
- reason: reason for choosing.`

type terminalKey struct {
	speaker string
	content string
}

// terminalReasons is the closed table of sentinel (speaker, content) pairs
// that end an invocation, mapped to the human-readable termination reason.
// Every known business outcome terminates here without a model call.
var terminalReasons = map[terminalKey]string{
	{string(workflow.StepValidator), workflow.MsgValidationUnsuccessful}:    "Document Validation Failed.",
	{string(workflow.StepValidator), workflow.MsgValidationFailed}:         "Validation Component Failed.",
	{string(workflow.StepExtractor), workflow.MsgExtractionFailed}:         "Information Extraction component failed.",
	{string(workflow.StepDecisionMaker), workflow.MsgDecisionFinancialOnly}: "Since, only Financial Support was approved, there is no need to generate recommendations for Economic Enablement, and only next steps in the process needs to be communicated to the applicant.",
	{string(workflow.StepDecisionMaker), workflow.MsgDecisionFailed}:       "Decision Making Component Failed.",
	{string(workflow.StepRecommender), workflow.MsgPipelineComplete}:       "Decision and Recommendation generation complete.",
	{string(workflow.StepRecommender), workflow.MsgValidationPathComplete}: "No Decision needed, Recommendation generation complete.",
	{string(workflow.StepRecommender), workflow.MsgRecommenderFailed}:      "Recommender Component Failed.",
	{string(workflow.StepChatbot), workflow.MsgChatReplyBuilt}:             "Chatbot Job finished.",
	{string(workflow.StepChatbot), workflow.MsgChatReplyFailed}:            "Error generating response for the user.",
}

// Supervisor is the routing step. It applies, in strict order: the chat
// short-circuit, the known-terminal table, and the constrained dynamic
// routing fallback.
type Supervisor struct {
	rt *Runtime
}

// NewSupervisor creates the supervisor step over the given runtime.
func NewSupervisor(rt *Runtime) *Supervisor {
	return &Supervisor{rt: rt}
}

func (s *Supervisor) Name() workflow.StepName {
	return workflow.StepSupervisor
}

func (s *Supervisor) Execute(ctx context.Context, state workflow.State) (workflow.Patch, workflow.Transition, error) {
	last, ok := state.LastMessage()

	// Rule 1: a raw user utterance that is not a pipeline start goes
	// straight to the chatbot.
	if ok && last.Speaker == workflow.SpeakerUser && last.Content != workflow.StartApplicationToken {
		s.rt.Logger.InfoContext(ctx, "supervisor routing", "to", workflow.StepChatbot)
		return workflow.Patch{
			Messages: []workflow.Message{{
				Speaker: string(workflow.StepSupervisor),
				Content: last.Content,
			}},
		}, workflow.Goto(workflow.StepChatbot), nil
	}

	// Rule 2: known business outcomes terminate deterministically.
	if ok {
		if reason, terminal := terminalReasons[terminalKey{last.Speaker, last.Content}]; terminal {
			s.rt.Logger.InfoContext(ctx, "supervisor terminal", "reason", reason)
			return workflow.Patch{
				Messages: []workflow.Message{{
					Speaker: string(workflow.StepSupervisor),
					Content: reason,
				}},
			}, workflow.Finish(), nil
		}
	}

	// Rule 3: dynamic routing for the one open-ended case (pipeline start).
	callCtx, cancel := s.rt.callCtx(ctx)
	defer cancel()

	next, reason, err := s.rt.Routing.Decide(callCtx, routingInstruction, state.Messages)
	if err != nil {
		return workflow.Patch{}, workflow.Transition{}, fmt.Errorf("routing decision: %w", err)
	}

	patch := workflow.Patch{
		Messages: []workflow.Message{{
			Speaker: string(workflow.StepSupervisor),
			Content: reason,
		}},
	}

	if next == "FINISH" || next == "__end__" {
		s.rt.Logger.InfoContext(ctx, "supervisor terminal", "reason", reason)
		return patch, workflow.Finish(), nil
	}

	target := workflow.StepName(strings.ToLower(next))
	if !registeredStep(target) {
		return workflow.Patch{}, workflow.Transition{}, fmt.Errorf("%w: routing decision %q", workflow.ErrUnknownStep, next)
	}

	s.rt.Logger.InfoContext(ctx, "supervisor routing", "to", target)
	return patch, workflow.Goto(target), nil
}

func registeredStep(name workflow.StepName) bool {
	for _, n := range workflow.StepNames() {
		if n == name {
			return true
		}
	}
	return false
}

package workflow

import "context"

// StepName identifies a registered workflow step. The set is closed:
// the engine refuses construction when a transition target is not registered.
type StepName string

// Registered step names.
const (
	StepSupervisor    StepName = "supervisor"
	StepExtractor     StepName = "extractor"
	StepValidator     StepName = "validator"
	StepDecisionMaker StepName = "decision_maker"
	StepRecommender   StepName = "recommender"
	StepChatbot       StepName = "chatbot"
)

// StepNames returns every registered step name.
func StepNames() []StepName {
	return []StepName{
		StepSupervisor,
		StepExtractor,
		StepValidator,
		StepDecisionMaker,
		StepRecommender,
		StepChatbot,
	}
}

// Transition is the routing outcome of a step: either the next step to
// execute or the terminal marker ending the invocation.
type Transition struct {
	Next     StepName
	Terminal bool
}

// Goto returns a transition to the named step.
func Goto(next StepName) Transition {
	return Transition{Next: next}
}

// Finish returns the terminal transition.
func Finish() Transition {
	return Transition{Terminal: true}
}

// Step is one unit of workflow logic. Execute receives a clone of the
// current state and returns a patch plus a transition. Collaborator
// failures with defined routing are handled inside the step; a returned
// error is converted by the engine into the step's sentinel failure patch.
type Step interface {
	Name() StepName
	Execute(ctx context.Context, s State) (Patch, Transition, error)
}

// Sentinel message contents exchanged between steps and the supervisor.
// These are control signals matched exactly, never free-form text.
const (
	MsgExtractionComplete     = "Extraction completed."
	MsgExtractionFailed       = "Extraction Component Failed."
	MsgValidationComplete     = "Application Validation Completed."
	MsgValidationUnsuccessful = "Validation Unsuccessful."
	MsgValidationFailed       = "Validation Component Failed."
	MsgDecisionFinancialOnly  = "Decision made: only Financial Support Approved."
	MsgDecisionMade           = "Decision made."
	MsgDecisionFailed         = "Decision Making Component Failed."
	MsgPipelineComplete       = "Process Complete (Extraction - Validation - Decision - Recommendation)"
	MsgValidationPathComplete = "Process Complete (Extraction - Validation - Recommendation)"
	MsgRecommenderFailed      = "Recommender Component Failed."
	MsgChatReplyBuilt         = "Successfully constructed a reply for the user."
	MsgChatReplyFailed        = "Error generating response for the user."
	MsgRoutingFailed          = "Routing Component Failed."
)

// LabelFinancialOnly is the decision label meaning a pure financial award.
// It is the single label that terminates the pipeline without recommendations.
const LabelFinancialOnly = "Financial Support Approved"

// ChatApology is the fixed reply shown when the chatbot cannot build a response.
const ChatApology = "I apologize, but I encountered an error while processing your request. Please try again."

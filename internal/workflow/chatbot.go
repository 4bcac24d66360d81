package workflow

import (
	"context"
	"strings"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// Chatbot answers a user utterance using retrieved context and the running
// conversation log. The log is private to the chatbot's turn-taking and
// distinct from the routing message sequence.
type Chatbot struct {
	rt *Runtime
}

// NewChatbot creates the chatbot step over the given runtime.
func NewChatbot(rt *Runtime) *Chatbot {
	return &Chatbot{rt: rt}
}

func (c *Chatbot) Name() workflow.StepName {
	return workflow.StepChatbot
}

func (c *Chatbot) Execute(ctx context.Context, state workflow.State) (workflow.Patch, workflow.Transition, error) {
	last, _ := state.LastMessage()
	question := last.Content

	log := append(append([]string(nil), state.ChatLog...), "User: "+question)

	callCtx, cancel := c.rt.callCtx(ctx)
	defer cancel()

	reply, err := c.respond(callCtx, question, log)
	if err != nil {
		c.rt.Logger.ErrorContext(ctx, "chat reply failed", "error", err)
		// Reset the visible log to just this turn.
		return workflow.Patch{
			Messages: []workflow.Message{{
				Speaker: string(workflow.StepChatbot),
				Content: workflow.MsgChatReplyFailed,
			}},
			ChatLog: []string{
				"User: " + question,
				"System: " + workflow.ChatApology,
			},
		}, workflow.Goto(workflow.StepSupervisor), nil
	}

	log = append(log, "System: "+reply)

	return workflow.Patch{
		Messages: []workflow.Message{{
			Speaker: string(workflow.StepChatbot),
			Content: workflow.MsgChatReplyBuilt,
		}},
		ChatLog: log,
	}, workflow.Goto(workflow.StepSupervisor), nil
}

func (c *Chatbot) respond(ctx context.Context, question string, log []string) (string, error) {
	history := strings.Join(log, "\n")

	passages, err := c.rt.Retrieval.RetrieveContext(ctx, history)
	if err != nil {
		return "", err
	}

	contextText := ""
	if len(passages) > 0 {
		contextText = passages[0]
	}

	return c.rt.Generation.Generate(ctx, TemplateConversation, map[string]string{
		"context_text":  contextText,
		"user_question": question,
		"chat_history":  history,
	})
}

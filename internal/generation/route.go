package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/JenosKanjiro/social-support-agent/pkg/formatting"
	"github.com/JenosKanjiro/social-support-agent/workflow"
)

type routeDecision struct {
	Next   string `json:"next"`
	Reason string `json:"reason"`
}

// gatherDetailsInstruction closes every routing prompt so the decision is
// grounded in the submitted documents rather than the conversation alone.
const gatherDetailsInstruction = "Get the details about the applicant from all the submitted documents"

// Decide asks the model for the next routing target given the instruction
// and the conversation so far.
func (s *Service) Decide(ctx context.Context, instruction string, messages []workflow.Message) (string, string, error) {
	content, err := s.chat(ctx, buildRoutingPrompt(instruction, messages))
	if err != nil {
		return "", "", fmt.Errorf("%w: routing: %w", ErrGenerateFailed, err)
	}

	parsed, err := formatting.Parse[routeDecision](content)
	if err != nil {
		return "", "", fmt.Errorf("%w: parse routing response: %w", ErrGenerateFailed, err)
	}

	s.logger.InfoContext(ctx, "routing decided", "next", parsed.Next)

	return parsed.Next, parsed.Reason, nil
}

func buildRoutingPrompt(instruction string, messages []workflow.Message) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nConversation so far:\n")
	for _, m := range messages {
		fmt.Fprintf(&b, "%s: %s\n", m.Speaker, m.Content)
	}
	b.WriteString("\n")
	b.WriteString(gatherDetailsInstruction)
	return b.String()
}

package applicants

import (
	"context"

	"github.com/google/uuid"

	"github.com/JenosKanjiro/social-support-agent/pkg/pagination"
	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// System defines the public contract for applicant domain operations.
// Record implements the workflow's outcome recording hook.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Application], error)

	Find(ctx context.Context, id uuid.UUID) (*Application, error)
	FindApplicant(ctx context.Context, applicantID string) (*Applicant, error)
	Record(ctx context.Context, state workflow.State) error
}

package workflow

import (
	"context"

	"github.com/JenosKanjiro/social-support-agent/workflow"
)

// Extractor runs document extraction. When a cached extraction locator is
// set and resolvable, the external extraction call is skipped entirely —
// the only early-exit in the pipeline.
type Extractor struct {
	rt *Runtime
}

// NewExtractor creates the extractor step over the given runtime.
func NewExtractor(rt *Runtime) *Extractor {
	return &Extractor{rt: rt}
}

func (e *Extractor) Name() workflow.StepName {
	return workflow.StepExtractor
}

func (e *Extractor) Execute(ctx context.Context, state workflow.State) (workflow.Patch, workflow.Transition, error) {
	callCtx, cancel := e.rt.callCtx(ctx)
	defer cancel()

	if state.CachedExtractionPath != "" {
		cached, err := e.rt.Extraction.LoadCached(callCtx, state.CachedExtractionPath)
		if err == nil && !cached.Empty() {
			e.rt.Logger.InfoContext(ctx, "extractor cache hit", "locator", state.CachedExtractionPath)
			return extractionSuccess(cached), workflow.Goto(workflow.StepValidator), nil
		}
		if err != nil {
			e.rt.Logger.WarnContext(ctx, "cached extraction unusable", "error", err)
		}
	}

	extracted, err := e.rt.Extraction.Extract(callCtx, state.ExtractionPaths)
	if err != nil {
		e.rt.Logger.ErrorContext(ctx, "extraction failed", "error", err)
		return workflow.Patch{
			Messages: []workflow.Message{{
				Speaker: string(workflow.StepExtractor),
				Content: workflow.MsgExtractionFailed,
			}},
			ExtractedData: &workflow.ExtractedData{},
		}, workflow.Goto(workflow.StepSupervisor), nil
	}

	if state.CachedExtractionPath != "" {
		if err := e.rt.Extraction.StoreCache(callCtx, state.CachedExtractionPath, extracted); err != nil {
			e.rt.Logger.WarnContext(ctx, "extraction cache write failed", "error", err)
		}
	}

	return extractionSuccess(extracted), workflow.Goto(workflow.StepValidator), nil
}

func extractionSuccess(extracted workflow.ExtractedData) workflow.Patch {
	return workflow.Patch{
		Messages: []workflow.Message{{
			Speaker: string(workflow.StepExtractor),
			Content: workflow.MsgExtractionComplete,
		}},
		ExtractedData: &extracted,
	}
}

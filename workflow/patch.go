package workflow

// Patch is the partial state update returned by a step. Messages are
// appended; every other non-nil field replaces the current value
// (last writer wins). Nil fields leave the state untouched.
type Patch struct {
	Messages             []Message
	ApplicationData      *ApplicationData
	ExtractionPaths      map[DocumentKind]string
	CachedExtractionPath *string
	ExtractedData        *ExtractedData
	ValidationResult     *ValidationReport
	Decision             *Decision
	ChatLog              []string
	Recommendations      *string
}

// Merge applies a patch to a state and returns the resulting state.
// The input state is not modified. Merge is the only way state advances;
// steps compute patches off a clone and never write shared memory.
func Merge(s State, p Patch) State {
	out := s.Clone()

	out.Messages = append(out.Messages, p.Messages...)

	if p.ApplicationData != nil {
		out.ApplicationData = *p.ApplicationData
	}
	if p.ExtractionPaths != nil {
		out.ExtractionPaths = make(map[DocumentKind]string, len(p.ExtractionPaths))
		for k, v := range p.ExtractionPaths {
			out.ExtractionPaths[k] = v
		}
	}
	if p.CachedExtractionPath != nil {
		out.CachedExtractionPath = *p.CachedExtractionPath
	}
	if p.ExtractedData != nil {
		out.ExtractedData = *p.ExtractedData
	}
	if p.ValidationResult != nil {
		out.ValidationResult = p.ValidationResult.clone()
	}
	if p.Decision != nil {
		out.Decision = *p.Decision
	}
	if p.ChatLog != nil {
		out.ChatLog = append([]string(nil), p.ChatLog...)
	}
	if p.Recommendations != nil {
		out.Recommendations = *p.Recommendations
	}

	return out
}

// StringPtr returns a pointer to s, for optional patch fields.
func StringPtr(s string) *string {
	return &s
}

package domain

import "strings"

// FrameType categorizes a selection's frame placement.
type FrameType string

const (
	FrameTypeStandard   FrameType = "standard"
	FrameTypeOnboarding FrameType = "onboarding"
	FrameTypeSequence   FrameType = "sequence"
)

// SelectionRequest is the user-chosen parameter combination handed to the
// validator and the prompt engine. Pose, outfit and footwear are required;
// prop and frame id are true optionals (nil means not chosen, never "").
type SelectionRequest struct {
	Pose      string    `json:"pose"`
	Outfit    string    `json:"outfit"`
	Footwear  string    `json:"footwear"`
	Prop      *string   `json:"prop,omitempty"`
	FrameType FrameType `json:"frame_type,omitempty"`
	FrameID   *string   `json:"frame_id,omitempty"`
}

// Normalized returns a copy with whitespace trimmed, empty optionals
// collapsed to nil and an unset frame type defaulted to standard. A frame id
// under the standard frame type is ignored, so it is dropped here and never
// reaches the canonical form. All fingerprinting and rendering operates on
// the normalized form.
func (s SelectionRequest) Normalized() SelectionRequest {
	out := SelectionRequest{
		Pose:      strings.TrimSpace(s.Pose),
		Outfit:    strings.TrimSpace(s.Outfit),
		Footwear:  strings.TrimSpace(s.Footwear),
		FrameType: FrameType(strings.TrimSpace(string(s.FrameType))),
	}
	if out.FrameType == "" {
		out.FrameType = FrameTypeStandard
	}
	if s.Prop != nil {
		if v := strings.TrimSpace(*s.Prop); v != "" {
			out.Prop = &v
		}
	}
	if s.FrameID != nil {
		if v := strings.TrimSpace(*s.FrameID); v != "" {
			out.FrameID = &v
		}
	}
	if out.FrameType == FrameTypeStandard {
		out.FrameID = nil
	}
	return out
}

// ValidationResult reports the outcome of compatibility validation. It is a
// pure function of the selection and the catalog; an invalid selection never
// reaches the prompt engine.
type ValidationResult struct {
	IsValid     bool     `json:"is_valid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings"`
	Suggestions []string `json:"suggestions"`
}

// RenderedPrompt is the deterministic output of the prompt engine for a
// normalized selection. Equal selections yield byte-identical prompts and
// the same fingerprint regardless of how the request was assembled.
type RenderedPrompt struct {
	PositivePrompt string `json:"positive_prompt"`
	NegativePrompt string `json:"negative_prompt"`
	Fingerprint    string `json:"fingerprint"`
}

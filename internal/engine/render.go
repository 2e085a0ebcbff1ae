package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"charforge-server/internal/catalog"
	"charforge-server/internal/domain"
)

// absentField stands in for unset optional fields in the canonical encoding
// so the fingerprint shape is stable regardless of which optionals are set.
const absentField = "-"

// characterInvariant is the brand/character text prepended to every prompt.
// It never varies per request; consistency of the character model across
// generations depends on it.
const characterInvariant = "Kicks, a stylized anthropomorphic courier fox brand character " +
	"with rust-orange fur, a cream muzzle, alert amber eyes and a notched left ear, " +
	"rendered in a clean bold illustration style with soft cel shading and confident linework, " +
	"consistent character model across all frames"

// baseNegative is the fixed disallowed-content list every negative prompt
// starts from.
var baseNegative = []string{
	"photorealistic human",
	"extra limbs",
	"deformed paws",
	"off-model character",
	"text",
	"watermark",
	"logo variations",
	"blurry",
	"low quality",
}

// canonical renders the normalized selection into its fixed-order key form:
// pose, outfit, footwear, prop, frame type, frame id. Missing optionals are
// encoded with the sentinel rather than omitted.
func canonical(sel domain.SelectionRequest) string {
	prop := absentField
	if sel.Prop != nil {
		prop = *sel.Prop
	}
	frameID := absentField
	if sel.FrameID != nil {
		frameID = *sel.FrameID
	}
	return fmt.Sprintf("pose=%s|outfit=%s|footwear=%s|prop=%s|frame=%s|frameid=%s",
		sel.Pose, sel.Outfit, sel.Footwear, prop, sel.FrameType, frameID)
}

// Fingerprint derives the stable identity of a selection from its canonical
// structure, not from rendered prompt text, so template wording changes do
// not invalidate cached prompts or in-flight jobs for the same selection.
func Fingerprint(sel domain.SelectionRequest) string {
	sum := sha256.Sum256([]byte(canonical(sel.Normalized())))
	return hex.EncodeToString(sum[:])
}

// Engine renders a validated selection into a positive/negative prompt
// pair. Callers must validate first; Render does not re-check compatibility.
type Engine struct {
	catalog *catalog.Store
}

func NewEngine(c *catalog.Store) *Engine {
	return &Engine{catalog: c}
}

// Render produces the deterministic RenderedPrompt for a selection. Equal
// selections yield byte-identical output on every call.
func (e *Engine) Render(sel domain.SelectionRequest) domain.RenderedPrompt {
	sel = sel.Normalized()

	positive := []string{characterInvariant}
	negative := append([]string(nil), baseNegative...)

	if pose, ok := e.catalog.Pose(sel.Pose); ok {
		positive = appendFragment(positive, pose.PromptFragment)
		negative = appendFragment(negative, pose.NegativeFragment)
	}
	if outfit, ok := e.catalog.Outfit(sel.Outfit); ok {
		positive = appendFragment(positive, outfit.PromptFragment)
		negative = appendFragment(negative, outfit.NegativeFragment)
	}
	if footwear, ok := e.catalog.Footwear(sel.Footwear); ok {
		positive = appendFragment(positive, footwear.PromptFragment)
	}
	if sel.Prop != nil {
		if prop, ok := e.catalog.Prop(*sel.Prop); ok {
			positive = appendFragment(positive, prop.PromptFragment)
		}
	}

	// Frame fragments appear only for onboarding/sequence frames; a
	// standard frame contributes no frame text at all.
	if sel.FrameType != domain.FrameTypeStandard && sel.FrameID != nil {
		if frame, ok := e.catalog.Frame(*sel.FrameID); ok {
			positive = appendFragment(positive, frame.Positioning)
			positive = appendFragment(positive, frame.Lighting)
			positive = appendFragment(positive, frame.Camera)
		}
	}

	return domain.RenderedPrompt{
		PositivePrompt: strings.Join(positive, ", "),
		NegativePrompt: strings.Join(negative, ", "),
		Fingerprint:    Fingerprint(sel),
	}
}

func appendFragment(parts []string, fragment string) []string {
	if fragment == "" {
		return parts
	}
	return append(parts, fragment)
}

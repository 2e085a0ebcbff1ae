// Package engine implements compatibility validation and deterministic
// prompt rendering over the parameter catalog.
package engine

import (
	"fmt"
	"slices"
	"strings"

	"charforge-server/internal/catalog"
	"charforge-server/internal/domain"
)

// Validator checks a selection against the catalog's compatibility edges.
// Validation is a pure function: identical input yields an identical result
// and nothing is mutated.
type Validator struct {
	catalog *catalog.Store
}

func NewValidator(c *catalog.Store) *Validator {
	return &Validator{catalog: c}
}

// Validate applies the compatibility rules in order, collecting every
// applicable error rather than stopping at the first. Compatibility rules
// only fire once both referenced options are known to exist, so a typo in
// one field does not cascade into misleading incompatibility errors.
func (v *Validator) Validate(sel domain.SelectionRequest) domain.ValidationResult {
	// Normalization drops a frame id under the standard frame type; remember
	// whether the caller supplied one so the warning still fires.
	frameIDSupplied := sel.FrameID != nil && strings.TrimSpace(*sel.FrameID) != ""
	sel = sel.Normalized()
	res := domain.ValidationResult{
		Errors:      []string{},
		Warnings:    []string{},
		Suggestions: []string{},
	}

	if sel.Pose == "" {
		res.Errors = append(res.Errors, "missing required parameter: pose")
	}
	if sel.Outfit == "" {
		res.Errors = append(res.Errors, "missing required parameter: outfit")
	}
	if sel.Footwear == "" {
		res.Errors = append(res.Errors, "missing required parameter: footwear")
	}

	var (
		pose   catalog.Pose
		outfit catalog.Outfit
		prop   catalog.Prop

		poseOK, outfitOK, propOK bool
	)
	if sel.Pose != "" {
		if pose, poseOK = v.catalog.Pose(sel.Pose); !poseOK {
			res.Errors = append(res.Errors, fmt.Sprintf("unknown pose id %q", sel.Pose))
		}
	}
	if sel.Outfit != "" {
		if outfit, outfitOK = v.catalog.Outfit(sel.Outfit); !outfitOK {
			res.Errors = append(res.Errors, fmt.Sprintf("unknown outfit id %q", sel.Outfit))
		}
	}
	footwearOK := false
	if sel.Footwear != "" {
		if _, footwearOK = v.catalog.Footwear(sel.Footwear); !footwearOK {
			res.Errors = append(res.Errors, fmt.Sprintf("unknown footwear id %q", sel.Footwear))
		}
	}
	if sel.Prop != nil {
		if prop, propOK = v.catalog.Prop(*sel.Prop); !propOK {
			res.Errors = append(res.Errors, fmt.Sprintf("unknown prop id %q", *sel.Prop))
		}
	}

	if poseOK && outfitOK && !slices.Contains(pose.CompatibleOutfits, outfit.ID) {
		res.Errors = append(res.Errors, "outfit incompatible with pose")
		res.Suggestions = append(res.Suggestions, pose.CompatibleOutfits...)
	}
	if outfitOK && footwearOK && !slices.Contains(outfit.CompatibleFootwear, sel.Footwear) {
		res.Errors = append(res.Errors, "footwear incompatible with outfit")
		res.Suggestions = append(res.Suggestions, outfit.CompatibleFootwear...)
	}
	if propOK && poseOK && !slices.Contains(prop.CompatiblePoses, pose.ID) {
		res.Errors = append(res.Errors, "prop incompatible with pose")
		res.Suggestions = append(res.Suggestions, prop.CompatiblePoses...)
	}

	switch sel.FrameType {
	case domain.FrameTypeStandard:
		if frameIDSupplied {
			res.Warnings = append(res.Warnings, "frame id is ignored for the standard frame type")
		}
	case domain.FrameTypeOnboarding, domain.FrameTypeSequence:
		if sel.FrameID == nil {
			res.Errors = append(res.Errors, fmt.Sprintf("missing frame id for frame type %q", sel.FrameType))
			break
		}
		frame, ok := v.catalog.Frame(*sel.FrameID)
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("unknown frame id %q", *sel.FrameID))
			break
		}
		if frame.Sequence != sel.FrameType {
			res.Errors = append(res.Errors, fmt.Sprintf("frame id %q does not belong to frame type %q", frame.ID, sel.FrameType))
		}
	default:
		res.Errors = append(res.Errors, fmt.Sprintf("unknown frame type %q", sel.FrameType))
	}

	res.IsValid = len(res.Errors) == 0
	return res
}

// Package catalog holds the immutable registry of selectable generation
// parameters and the compatibility edges between them. The dataset is
// reference data loaded once at process start; the store has no mutation
// API and is safe to share across requests without locking.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"charforge-server/internal/domain"
)

// Pose is a body posture option. CompatibleOutfits lists the outfit ids a
// pose can be rendered with.
type Pose struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	PromptFragment    string   `json:"-"`
	NegativeFragment  string   `json:"-"`
	CompatibleOutfits []string `json:"compatible_outfits"`
}

// Outfit is a clothing option. CompatibleFootwear lists the footwear ids an
// outfit pairs with.
type Outfit struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	PromptFragment     string   `json:"-"`
	NegativeFragment   string   `json:"-"`
	CompatibleFootwear []string `json:"compatible_footwear"`
}

// Footwear is a sneaker option.
type Footwear struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PromptFragment string `json:"-"`
}

// Prop is a handheld or scene object. CompatiblePoses lists the poses the
// prop can appear with.
type Prop struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	PromptFragment  string   `json:"-"`
	CompatiblePoses []string `json:"compatible_poses"`
}

// FrameTemplate carries the positioning, lighting and camera fragments for
// one frame of an onboarding or sequence flow. Sequence tags which frame
// type the template belongs to.
type FrameTemplate struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Sequence    domain.FrameType `json:"sequence"`
	Positioning string           `json:"-"`
	Lighting    string           `json:"-"`
	Camera      string           `json:"-"`
}

// Dataset is the raw reference data a Store is built from.
type Dataset struct {
	Poses    []Pose
	Outfits  []Outfit
	Footwear []Footwear
	Props    []Prop
	Frames   []FrameTemplate
}

// Store exposes immutable lookups over a Dataset. Unknown ids report
// ok=false; callers treat absence as a validation condition, not a crash.
type Store struct {
	poses    map[string]Pose
	outfits  map[string]Outfit
	footwear map[string]Footwear
	props    map[string]Prop
	frames   map[string]FrameTemplate

	poseOrder     []string
	outfitOrder   []string
	footwearOrder []string
	propOrder     []string
	frameOrder    []string
}

var titleCaser = cases.Title(language.English)

// displayName falls back to a title-cased form of the id slug when the
// dataset omits an explicit name.
func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return titleCaser.String(strings.ReplaceAll(id, "-", " "))
}

// NewStore indexes the dataset for lookup, preserving declaration order for
// listings and deriving display names where the dataset omits them.
func NewStore(data Dataset) *Store {
	s := &Store{
		poses:    make(map[string]Pose, len(data.Poses)),
		outfits:  make(map[string]Outfit, len(data.Outfits)),
		footwear: make(map[string]Footwear, len(data.Footwear)),
		props:    make(map[string]Prop, len(data.Props)),
		frames:   make(map[string]FrameTemplate, len(data.Frames)),
	}
	for _, p := range data.Poses {
		p.Name = displayName(p.Name, p.ID)
		s.poses[p.ID] = p
		s.poseOrder = append(s.poseOrder, p.ID)
	}
	for _, o := range data.Outfits {
		o.Name = displayName(o.Name, o.ID)
		s.outfits[o.ID] = o
		s.outfitOrder = append(s.outfitOrder, o.ID)
	}
	for _, f := range data.Footwear {
		f.Name = displayName(f.Name, f.ID)
		s.footwear[f.ID] = f
		s.footwearOrder = append(s.footwearOrder, f.ID)
	}
	for _, p := range data.Props {
		p.Name = displayName(p.Name, p.ID)
		s.props[p.ID] = p
		s.propOrder = append(s.propOrder, p.ID)
	}
	for _, fr := range data.Frames {
		fr.Title = displayName(fr.Title, fr.ID)
		s.frames[fr.ID] = fr
		s.frameOrder = append(s.frameOrder, fr.ID)
	}
	return s
}

func (s *Store) Pose(id string) (Pose, bool) {
	p, ok := s.poses[id]
	return p, ok
}

func (s *Store) Outfit(id string) (Outfit, bool) {
	o, ok := s.outfits[id]
	return o, ok
}

func (s *Store) Footwear(id string) (Footwear, bool) {
	f, ok := s.footwear[id]
	return f, ok
}

func (s *Store) Prop(id string) (Prop, bool) {
	p, ok := s.props[id]
	return p, ok
}

func (s *Store) Frame(id string) (FrameTemplate, bool) {
	f, ok := s.frames[id]
	return f, ok
}

// Poses lists all poses in declaration order.
func (s *Store) Poses() []Pose {
	out := make([]Pose, 0, len(s.poseOrder))
	for _, id := range s.poseOrder {
		out = append(out, s.poses[id])
	}
	return out
}

func (s *Store) Outfits() []Outfit {
	out := make([]Outfit, 0, len(s.outfitOrder))
	for _, id := range s.outfitOrder {
		out = append(out, s.outfits[id])
	}
	return out
}

func (s *Store) AllFootwear() []Footwear {
	out := make([]Footwear, 0, len(s.footwearOrder))
	for _, id := range s.footwearOrder {
		out = append(out, s.footwear[id])
	}
	return out
}

func (s *Store) Props() []Prop {
	out := make([]Prop, 0, len(s.propOrder))
	for _, id := range s.propOrder {
		out = append(out, s.props[id])
	}
	return out
}

func (s *Store) Frames() []FrameTemplate {
	out := make([]FrameTemplate, 0, len(s.frameOrder))
	for _, id := range s.frameOrder {
		out = append(out, s.frames[id])
	}
	return out
}

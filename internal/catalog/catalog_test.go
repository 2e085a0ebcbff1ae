package catalog

import (
	"testing"

	"charforge-server/internal/domain"
)

func TestDefaultDatasetEdgesResolve(t *testing.T) {
	s := Default()

	for _, pose := range s.Poses() {
		if len(pose.CompatibleOutfits) == 0 {
			t.Errorf("pose %q has no compatible outfits", pose.ID)
		}
		for _, id := range pose.CompatibleOutfits {
			if _, ok := s.Outfit(id); !ok {
				t.Errorf("pose %q references unknown outfit %q", pose.ID, id)
			}
		}
	}
	for _, outfit := range s.Outfits() {
		if len(outfit.CompatibleFootwear) == 0 {
			t.Errorf("outfit %q has no compatible footwear", outfit.ID)
		}
		for _, id := range outfit.CompatibleFootwear {
			if _, ok := s.Footwear(id); !ok {
				t.Errorf("outfit %q references unknown footwear %q", outfit.ID, id)
			}
		}
	}
	for _, prop := range s.Props() {
		for _, id := range prop.CompatiblePoses {
			if _, ok := s.Pose(id); !ok {
				t.Errorf("prop %q references unknown pose %q", prop.ID, id)
			}
		}
	}
	for _, frame := range s.Frames() {
		if frame.Sequence != domain.FrameTypeOnboarding && frame.Sequence != domain.FrameTypeSequence {
			t.Errorf("frame %q has invalid sequence tag %q", frame.ID, frame.Sequence)
		}
	}
}

func TestUnknownLookups(t *testing.T) {
	s := Default()
	if _, ok := s.Pose("moonwalk"); ok {
		t.Fatal("expected unknown pose lookup to report ok=false")
	}
	if _, ok := s.Frame("missing-frame"); ok {
		t.Fatal("expected unknown frame lookup to report ok=false")
	}
}

func TestDisplayNameDerivation(t *testing.T) {
	s := Default()

	pose, ok := s.Pose("arms-crossed")
	if !ok {
		t.Fatal("arms-crossed missing from default dataset")
	}
	if pose.Name != "Arms Crossed" {
		t.Fatalf("derived name = %q, want %q", pose.Name, "Arms Crossed")
	}

	shoe, ok := s.Footwear("air-jordan-1-chicago")
	if !ok {
		t.Fatal("air-jordan-1-chicago missing from default dataset")
	}
	if shoe.Name != "Air Jordan 1 Chicago" {
		t.Fatalf("explicit name overwritten, got %q", shoe.Name)
	}
}

func TestListingPreservesDeclarationOrder(t *testing.T) {
	s := NewStore(Dataset{
		Poses: []Pose{
			{ID: "b-pose", CompatibleOutfits: []string{"x"}},
			{ID: "a-pose", CompatibleOutfits: []string{"x"}},
		},
	})
	poses := s.Poses()
	if len(poses) != 2 || poses[0].ID != "b-pose" || poses[1].ID != "a-pose" {
		t.Fatalf("listing order changed: %+v", poses)
	}
}

package catalog

import "charforge-server/internal/domain"

// Default returns the store built from the shipped reference dataset for
// Kicks, the courier-fox brand character. The dataset is part of deployment
// configuration; changing it requires a process restart.
func Default() *Store {
	return NewStore(defaultDataset)
}

var defaultDataset = Dataset{
	Poses: []Pose{
		{
			ID:             "arms-crossed",
			Description:    "Standing square to camera with arms folded",
			PromptFragment: "standing tall with arms crossed over the chest, confident relaxed shoulders",
			CompatibleOutfits: []string{
				"hoodie-sweatpants", "denim-jacket", "varsity-cargo",
			},
		},
		{
			ID:             "hands-in-pockets",
			Description:    "Casual slouch, both hands tucked into pockets",
			PromptFragment: "leaning back slightly with both hands in pockets, easy casual stance",
			CompatibleOutfits: []string{
				"hoodie-sweatpants", "tshirt-shorts", "denim-jacket", "tracksuit",
			},
		},
		{
			ID:             "mid-stride",
			Description:    "Caught mid-step, walking toward camera",
			PromptFragment: "captured mid-stride walking toward the viewer, natural arm swing",
			CompatibleOutfits: []string{
				"tshirt-shorts", "tracksuit", "varsity-cargo",
			},
		},
		{
			ID:               "sitting-on-crate",
			Description:      "Seated on a wooden shipping crate, elbows on knees",
			PromptFragment:   "sitting on a weathered wooden crate, elbows resting on knees, leaning forward",
			NegativeFragment: "standing, walking",
			CompatibleOutfits: []string{
				"hoodie-sweatpants", "tshirt-shorts", "varsity-cargo",
			},
		},
		{
			ID:             "jump-freeze",
			Description:    "Frozen at the apex of a jump, knees tucked",
			PromptFragment: "frozen at the peak of a jump, knees tucked, dynamic energy",
			CompatibleOutfits: []string{
				"tshirt-shorts", "tracksuit",
			},
		},
	},
	Outfits: []Outfit{
		{
			ID:             "hoodie-sweatpants",
			Description:    "Oversized pullover hoodie with matching sweatpants",
			PromptFragment: "wearing an oversized heather-grey pullover hoodie and tapered sweatpants",
			CompatibleFootwear: []string{
				"air-jordan-1-chicago", "air-force-1-white", "dunk-low-panda",
			},
		},
		{
			ID:             "tshirt-shorts",
			Description:    "Boxy graphic tee with mesh basketball shorts",
			PromptFragment: "wearing a boxy off-white graphic tee and black mesh basketball shorts",
			CompatibleFootwear: []string{
				"air-jordan-1-chicago", "dunk-low-panda", "gel-lyte-iii-grey",
			},
		},
		{
			ID:             "denim-jacket",
			Description:    "Washed denim trucker jacket over a plain tee",
			PromptFragment: "wearing a stone-washed denim trucker jacket over a plain white tee and straight-leg jeans",
			CompatibleFootwear: []string{
				"air-force-1-white", "gel-lyte-iii-grey",
			},
		},
		{
			ID:               "tracksuit",
			Description:      "Retro two-piece tracksuit with contrast piping",
			PromptFragment:   "wearing a retro navy two-piece tracksuit with white contrast piping",
			NegativeFragment: "formal wear, suit and tie",
			CompatibleFootwear: []string{
				"air-force-1-white", "dunk-low-panda", "gel-lyte-iii-grey",
			},
		},
		{
			ID:             "varsity-cargo",
			Description:    "Wool varsity jacket with utility cargo pants",
			PromptFragment: "wearing a cream-and-green wool varsity jacket and olive utility cargo pants",
			CompatibleFootwear: []string{
				"air-jordan-1-chicago", "air-force-1-white",
			},
		},
	},
	Footwear: []Footwear{
		{
			ID:             "air-jordan-1-chicago",
			Name:           "Air Jordan 1 Chicago",
			Description:    "High-top in white, black and varsity red",
			PromptFragment: "laced into white, black and varsity-red high-top basketball sneakers, crisp and detailed",
		},
		{
			ID:             "air-force-1-white",
			Name:           "Air Force 1 White",
			Description:    "All-white classic low-top",
			PromptFragment: "wearing spotless all-white classic low-top sneakers",
		},
		{
			ID:             "dunk-low-panda",
			Name:           "Dunk Low Panda",
			Description:    "Black-and-white low-top",
			PromptFragment: "wearing black-and-white panda colorway low-top sneakers",
		},
		{
			ID:             "gel-lyte-iii-grey",
			Name:           "Gel-Lyte III Grey",
			Description:    "Grey suede split-tongue runner",
			PromptFragment: "wearing grey suede split-tongue running sneakers",
		},
	},
	Props: []Prop{
		{
			ID:             "basketball",
			Description:    "Worn outdoor basketball",
			PromptFragment: "holding a worn orange basketball against one hip",
			CompatiblePoses: []string{
				"arms-crossed", "hands-in-pockets", "sitting-on-crate",
			},
		},
		{
			ID:             "skateboard",
			Description:    "Deck with scuffed grip tape",
			PromptFragment: "with a scuffed skateboard tucked under one arm",
			CompatiblePoses: []string{
				"hands-in-pockets", "mid-stride",
			},
		},
		{
			ID:             "boombox",
			Description:    "Chrome 80s boombox",
			PromptFragment: "carrying a chrome retro boombox on one shoulder",
			CompatiblePoses: []string{
				"mid-stride", "sitting-on-crate",
			},
		},
		{
			ID:             "duffel-bag",
			Description:    "Canvas courier duffel",
			PromptFragment: "with a waxed-canvas courier duffel slung across the back",
			CompatiblePoses: []string{
				"arms-crossed", "mid-stride", "jump-freeze",
			},
		},
	},
	Frames: []FrameTemplate{
		{
			ID:          "onboarding-welcome",
			Title:       "Onboarding Welcome",
			Sequence:    domain.FrameTypeOnboarding,
			Positioning: "character centered in the lower third, generous headroom for overlay copy",
			Lighting:    "soft high-key studio light, gentle rim light from the left",
			Camera:      "eye-level medium shot, 50mm look, shallow depth of field",
		},
		{
			ID:          "onboarding-explainer",
			Title:       "Onboarding Explainer",
			Sequence:    domain.FrameTypeOnboarding,
			Positioning: "character offset to the right half, left half kept clear",
			Lighting:    "neutral soft-box lighting, minimal shadows",
			Camera:      "slightly high angle three-quarter shot",
		},
		{
			ID:          "sequence-opener",
			Title:       "Sequence Opener",
			Sequence:    domain.FrameTypeSequence,
			Positioning: "character entering from frame left, motion direction left to right",
			Lighting:    "warm golden-hour key with long soft shadows",
			Camera:      "wide establishing shot, low angle",
		},
		{
			ID:          "sequence-closer",
			Title:       "Sequence Closer",
			Sequence:    domain.FrameTypeSequence,
			Positioning: "character centered and facing camera, settled stance",
			Lighting:    "cool dusk ambience with a single hard key light",
			Camera:      "tight medium close-up, 85mm look",
		},
	},
}

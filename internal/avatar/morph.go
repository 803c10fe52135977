// Package avatar drives the interviewer character: a small state machine
// over base animation clips plus per-frame morph-target weight updates
// for blinking and lip-sync.
package avatar

import "github.com/DekyCS/bagelhacks/internal/viseme"

// Morph target names follow the ARKit blendshape convention most rigged
// interviewer models expose. Models that lack some of these simply never
// receive those weights.
const (
	MorphEyeBlinkLeft  = "eyeBlinkLeft"
	MorphEyeBlinkRight = "eyeBlinkRight"

	MorphJawOpen             = "jawOpen"
	MorphMouthClose          = "mouthClose"
	MorphMouthFunnel         = "mouthFunnel"
	MorphMouthPucker         = "mouthPucker"
	MorphMouthSmileLeft      = "mouthSmileLeft"
	MorphMouthSmileRight     = "mouthSmileRight"
	MorphMouthStretchLeft    = "mouthStretchLeft"
	MorphMouthStretchRight   = "mouthStretchRight"
	MorphMouthLowerDownLeft  = "mouthLowerDownLeft"
	MorphMouthLowerDownRight = "mouthLowerDownRight"
	MorphTongueOut           = "tongueOut"
)

// MorphContribution is one morph target's share of a mouth shape.
type MorphContribution struct {
	Name   string
	Weight float64
}

// shapeToMorphs maps each viseme shape onto the morph targets that form
// it. Sil maps to nothing: the per-frame mouth decay produces the
// closed mouth.
var shapeToMorphs = map[viseme.Shape][]MorphContribution{
	viseme.Sil: {},
	viseme.AA:  {{MorphJawOpen, 0.6}, {MorphMouthStretchLeft, 0.2}, {MorphMouthStretchRight, 0.2}},
	viseme.E:   {{MorphJawOpen, 0.3}, {MorphMouthSmileLeft, 0.3}, {MorphMouthSmileRight, 0.3}},
	viseme.IH:  {{MorphJawOpen, 0.2}, {MorphMouthSmileLeft, 0.4}, {MorphMouthSmileRight, 0.4}},
	viseme.OH:  {{MorphJawOpen, 0.4}, {MorphMouthFunnel, 0.5}, {MorphMouthPucker, 0.3}},
	viseme.OU:  {{MorphJawOpen, 0.25}, {MorphMouthPucker, 0.6}, {MorphMouthFunnel, 0.4}},
	viseme.MBP: {{MorphMouthClose, 0.8}, {MorphMouthPucker, 0.3}},
	viseme.FV:  {{MorphMouthFunnel, 0.5}, {MorphMouthLowerDownLeft, 0.2}, {MorphMouthLowerDownRight, 0.2}},
	viseme.TH:  {{MorphMouthFunnel, 0.3}, {MorphTongueOut, 0.4}},
	viseme.CH:  {{MorphMouthFunnel, 0.4}, {MorphMouthPucker, 0.3}},
	viseme.SS:  {{MorphMouthStretchLeft, 0.3}, {MorphMouthStretchRight, 0.3}},
	viseme.DD:  {{MorphJawOpen, 0.2}, {MorphMouthClose, 0.2}},
	viseme.KK:  {{MorphJawOpen, 0.25}, {MorphMouthStretchLeft, 0.2}, {MorphMouthStretchRight, 0.2}},
	viseme.NN:  {{MorphJawOpen, 0.15}, {MorphMouthClose, 0.3}},
	viseme.RR:  {{MorphMouthPucker, 0.4}, {MorphMouthFunnel, 0.2}},
}

// mouthMorphNames is the union of every morph target any shape touches;
// these are the weights decayed toward zero each frame.
var mouthMorphNames = func() []string {
	seen := map[string]struct{}{}
	var names []string
	for _, contribs := range shapeToMorphs {
		for _, c := range contribs {
			if _, ok := seen[c.Name]; !ok {
				seen[c.Name] = struct{}{}
				names = append(names, c.Name)
			}
		}
	}
	return names
}()

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lerp moves current toward target by factor t in [0,1].
func lerp(current, target, t float64) float64 {
	return current + (target-current)*t
}

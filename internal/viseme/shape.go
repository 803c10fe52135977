// Package viseme turns utterance text into timestamped mouth-shape
// sequences and resolves which shape is active at a given playback time.
// The generator is a timing heuristic driven by character counts, not a
// phonetic transcription; it exists so the avatar can move its mouth in
// rough sync with speech when no real phoneme timing is available.
package viseme

// Shape identifies a discrete mouth shape.
type Shape int

const (
	Sil Shape = iota // silence / closed mouth
	AA               // a (open)
	E                // e
	IH               // i
	OH               // o
	OU               // u, w
	MBP              // m, b, p
	FV               // f, v
	TH               // th
	CH               // ch, j, sh
	SS               // s, z
	DD               // t, d
	KK               // k, g
	NN               // n, l
	RR               // r
)

var shapeNames = [...]string{
	Sil: "sil",
	AA:  "aa",
	E:   "e",
	IH:  "ih",
	OH:  "oh",
	OU:  "ou",
	MBP: "mbp",
	FV:  "fv",
	TH:  "th",
	CH:  "ch",
	SS:  "ss",
	DD:  "dd",
	KK:  "kk",
	NN:  "nn",
	RR:  "rr",
}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return "unknown"
	}
	return shapeNames[s]
}

// charToShape maps lowercase characters and digraphs to mouth shapes.
// Vowels get distinct open shapes, labials close the mouth, and anything
// not listed falls back to Sil.
var charToShape = map[string]Shape{
	"a": AA,
	"e": E,
	"i": IH,
	"o": OH,
	"u": OU,

	"m": MBP, "b": MBP, "p": MBP,
	"f": FV, "v": FV,
	"s": SS, "z": SS,
	"n": NN, "l": NN,
	"r": RR,
	"t": DD, "d": DD,
	"k": KK, "g": KK, "c": KK, "q": KK,
	"w": OU,
	"y": IH,
	"h": AA,

	"th": TH,
	"ch": CH, "j": CH, "sh": CH,
}

// Event is a single target mouth shape to reach at OffsetMS milliseconds
// after utterance start.
type Event struct {
	OffsetMS int   `json:"offsetMs"`
	Shape    Shape `json:"shape"`
}

// Sequence is an ordered run of viseme events with strictly increasing
// offsets. A non-empty sequence always ends with a Sil entry.
type Sequence []Event

// DurationMS returns the offset of the final event, or 0 for an empty
// sequence.
func (s Sequence) DurationMS() int {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].OffsetMS
}

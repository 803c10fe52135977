package viseme

// DefaultTrailingBufferMS is how far past the final offset a sequence is
// still considered live before it counts as exhausted.
const DefaultTrailingBufferMS = 500

// Cue is the synchronizer's answer for a single point in time: the
// authoritative shape, the upcoming shape if any, and how far the
// transition between them has progressed.
type Cue struct {
	Current Event
	Next    Event
	HasNext bool
	// Blend is the transition progress from Current toward Next,
	// in [0,1]. Zero when there is no next event.
	Blend float64
	// Exhausted is set once elapsed time has passed the final offset by
	// more than the trailing buffer. The synchronizer never resets
	// anything itself; the caller decides what exhaustion means.
	Exhausted bool
}

// At resolves the active cue for elapsedMS milliseconds since the speech
// anchor. It is a pure query, safe to call every frame. The second return
// is false when the sequence is empty.
func (s Sequence) At(elapsedMS int) (Cue, bool) {
	return s.AtWithBuffer(elapsedMS, DefaultTrailingBufferMS)
}

// AtWithBuffer is At with an explicit trailing buffer.
func (s Sequence) AtWithBuffer(elapsedMS, trailingMS int) (Cue, bool) {
	if len(s) == 0 {
		return Cue{}, false
	}

	// Before the first offset the first entry is authoritative with no
	// transition underway.
	if elapsedMS < s[0].OffsetMS {
		elapsedMS = s[0].OffsetMS
	}

	last := s[len(s)-1]
	if elapsedMS >= last.OffsetMS {
		return Cue{
			Current:   last,
			Exhausted: elapsedMS > last.OffsetMS+trailingMS,
		}, true
	}

	// Last entry with offset <= elapsed; the loop above guarantees a
	// following entry exists.
	cur := 0
	for i := 1; i < len(s); i++ {
		if s[i].OffsetMS > elapsedMS {
			break
		}
		cur = i
	}
	next := s[cur+1]

	blend := 0.0
	if span := next.OffsetMS - s[cur].OffsetMS; span > 0 {
		blend = clampUnit(float64(elapsedMS-s[cur].OffsetMS) / float64(span))
	}

	return Cue{
		Current: s[cur],
		Next:    next,
		HasNext: true,
		Blend:   blend,
	}, true
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

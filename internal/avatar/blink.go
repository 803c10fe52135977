package avatar

import (
	"math/rand"
	"time"
)

// blinker decides whether the eyes should currently be closed. Blinks
// fire on an independent random timer and hold the lids closed briefly;
// the driver smooths the actual lid weight.
type blinker struct {
	rng         *rand.Rand
	minGap      time.Duration
	maxGap      time.Duration
	hold        time.Duration
	nextBlinkAt time.Time
	closedUntil time.Time
}

func newBlinker(rng *rand.Rand, minGap, maxGap, hold time.Duration, now time.Time) *blinker {
	b := &blinker{
		rng:    rng,
		minGap: minGap,
		maxGap: maxGap,
		hold:   hold,
	}
	b.nextBlinkAt = now.Add(b.randomGap())
	return b
}

// closed reports whether the lids should be closed at now, starting a
// new blink and rescheduling the timer as needed.
func (b *blinker) closed(now time.Time) bool {
	if now.Before(b.closedUntil) {
		return true
	}
	if !now.Before(b.nextBlinkAt) {
		b.closedUntil = now.Add(b.hold)
		b.nextBlinkAt = now.Add(b.hold + b.randomGap())
		return true
	}
	return false
}

func (b *blinker) randomGap() time.Duration {
	span := b.maxGap - b.minGap
	if span <= 0 {
		return b.minGap
	}
	return b.minGap + time.Duration(b.rng.Int63n(int64(span)))
}

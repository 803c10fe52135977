package viseme

import "strings"

// Strategy produces a viseme sequence for an utterance. Implementations
// other than the bundled character heuristic (a phoneme-timed engine, for
// example) can be swapped in without touching the animation driver.
type Strategy interface {
	Generate(text string) Sequence
}

// GeneratorConfig tunes the character-timing heuristic.
type GeneratorConfig struct {
	// CharDurationMS is the fixed per-character duration. Roughly 5-7
	// characters per second of natural speech.
	CharDurationMS int
	// WordPauseMS is the neutral pause inserted at each word boundary.
	WordPauseMS int
}

// DefaultGeneratorConfig returns the timing constants used in production.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		CharDurationMS: 150,
		WordPauseMS:    50,
	}
}

// Generator approximates spoken timing from character counts. It is pure
// and deterministic: the same text and config always produce the same
// sequence.
type Generator struct {
	cfg GeneratorConfig
}

// NewGenerator creates a Generator, substituting defaults for zero config
// values.
func NewGenerator(cfg GeneratorConfig) *Generator {
	def := DefaultGeneratorConfig()
	if cfg.CharDurationMS <= 0 {
		cfg.CharDurationMS = def.CharDurationMS
	}
	if cfg.WordPauseMS <= 0 {
		cfg.WordPauseMS = def.WordPauseMS
	}
	return &Generator{cfg: cfg}
}

// Generate converts text into a viseme sequence. Empty or
// whitespace-only input yields an empty sequence. Otherwise offsets are
// strictly increasing and the final entry is always Sil.
func (g *Generator) Generate(text string) Sequence {
	chunks := splitChunks(text)
	if len(chunks) == 0 {
		return nil
	}

	var seq Sequence
	offset := 0

	for _, chunk := range chunks {
		for i := 0; i < len(chunk); i++ {
			shape, width := lookupShape(chunk, i)
			seq = append(seq, Event{OffsetMS: offset, Shape: shape})
			offset += g.cfg.CharDurationMS
			i += width - 1
		}

		// Word boundary: brief neutral rest before the next chunk.
		offset += g.cfg.WordPauseMS
		seq = append(seq, Event{OffsetMS: offset, Shape: Sil})
		offset += g.cfg.WordPauseMS
	}

	seq = append(seq, Event{OffsetMS: offset, Shape: Sil})
	return seq
}

// lookupShape resolves the shape at position i of a chunk, preferring
// two-character digraphs (th, ch, sh). It returns the shape and how many
// characters were consumed.
func lookupShape(chunk string, i int) (Shape, int) {
	if i+2 <= len(chunk) {
		switch digraph := chunk[i : i+2]; digraph {
		case "th", "ch", "sh":
			return charToShape[digraph], 2
		}
	}
	if shape, ok := charToShape[chunk[i:i+1]]; ok {
		return shape, 1
	}
	return Sil, 1
}

// splitChunks lowercases the text and splits it into word chunks on
// whitespace and punctuation, dropping empties.
func splitChunks(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', ',', '.', '!', '?', ';', ':':
			return true
		}
		return false
	})
	return fields
}

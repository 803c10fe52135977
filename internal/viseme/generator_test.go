package viseme

import (
	"reflect"
	"testing"
)

func TestGenerate_EmptyInput(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())

	for _, text := range []string{"", "   ", "\t\n", "...!?"} {
		if seq := g.Generate(text); len(seq) != 0 {
			t.Errorf("Generate(%q) = %d events, want empty", text, len(seq))
		}
	}
}

func TestGenerate_OffsetsIncreaseAndEndNeutral(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())

	texts := []string{
		"hi",
		"Hello there",
		"Tell me about a challenging project you worked on.",
		"The quick brown fox jumps over the lazy dog",
	}
	for _, text := range texts {
		seq := g.Generate(text)
		if len(seq) == 0 {
			t.Fatalf("Generate(%q) returned empty sequence", text)
		}
		for i := 1; i < len(seq); i++ {
			if seq[i].OffsetMS <= seq[i-1].OffsetMS {
				t.Errorf("Generate(%q): offset[%d]=%d not greater than offset[%d]=%d",
					text, i, seq[i].OffsetMS, i-1, seq[i-1].OffsetMS)
			}
		}
		if last := seq[len(seq)-1]; last.Shape != Sil {
			t.Errorf("Generate(%q): final shape = %v, want Sil", text, last.Shape)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g := NewGenerator(GeneratorConfig{CharDurationMS: 120, WordPauseMS: 40})

	const text = "Describe a time you disagreed with a teammate"
	a := g.Generate(text)
	b := g.Generate(text)
	if !reflect.DeepEqual(a, b) {
		t.Error("two invocations with identical input produced different sequences")
	}
}

func TestGenerate_HelloThere(t *testing.T) {
	g := NewGenerator(GeneratorConfig{CharDurationMS: 150, WordPauseMS: 50})

	seq := g.Generate("Hello there")
	// "hello" = 5 chars, "there" = th digraph + 3 chars = 4 events.
	// Each chunk is followed by a boundary Sil, plus the final Sil.
	wantLen := 5 + 1 + 4 + 1 + 1
	if len(seq) != wantLen {
		t.Fatalf("got %d events, want %d: %v", len(seq), wantLen, seq)
	}

	// Boundary Sil after "hello" sits one pause past the last character.
	if seq[5].Shape != Sil || seq[5].OffsetMS != 5*150+50 {
		t.Errorf("word-boundary event = %+v, want Sil at %d", seq[5], 5*150+50)
	}

	for i := 1; i < len(seq); i++ {
		if seq[i].OffsetMS <= seq[i-1].OffsetMS {
			t.Fatalf("offsets not strictly increasing at %d: %v", i, seq)
		}
	}
	if seq[len(seq)-1].Shape != Sil {
		t.Error("sequence does not end with Sil")
	}
}

func TestGenerate_CharacterMapping(t *testing.T) {
	g := NewGenerator(GeneratorConfig{CharDurationMS: 100, WordPauseMS: 50})

	seq := g.Generate("map")
	if len(seq) != 5 {
		t.Fatalf("got %d events, want 5", len(seq))
	}
	want := []Shape{MBP, AA, MBP, Sil, Sil}
	for i, w := range want {
		if seq[i].Shape != w {
			t.Errorf("event %d shape = %v, want %v", i, seq[i].Shape, w)
		}
	}
}

func TestGenerate_Digraphs(t *testing.T) {
	g := NewGenerator(GeneratorConfig{CharDurationMS: 100, WordPauseMS: 50})

	// "the" -> th digraph consumes two characters, then e.
	seq := g.Generate("the")
	if seq[0].Shape != TH {
		t.Errorf("first shape = %v, want TH", seq[0].Shape)
	}
	if seq[1].Shape != E {
		t.Errorf("second shape = %v, want E", seq[1].Shape)
	}
}

func TestGenerate_UnmatchedCharsAreNeutral(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())

	seq := g.Generate("xx")
	for _, ev := range seq {
		if ev.Shape != Sil {
			t.Errorf("unmatched character produced shape %v, want Sil", ev.Shape)
		}
	}
}

func TestNewGenerator_ZeroConfigUsesDefaults(t *testing.T) {
	g := NewGenerator(GeneratorConfig{})
	def := DefaultGeneratorConfig()

	if g.cfg.CharDurationMS != def.CharDurationMS {
		t.Errorf("CharDurationMS = %d, want default %d", g.cfg.CharDurationMS, def.CharDurationMS)
	}
	if g.cfg.WordPauseMS != def.WordPauseMS {
		t.Errorf("WordPauseMS = %d, want default %d", g.cfg.WordPauseMS, def.WordPauseMS)
	}
}

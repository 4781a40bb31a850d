package lyrics

import (
	"errors"
	"testing"
)

func TestParseRichsync(t *testing.T) {
	t.Run("Words", func(t *testing.T) {
		raw := `[{"ts":1.0,"te":3.0,"l":[{"c":"Hello","o":0},{"c":" ","o":0.5},{"c":"world","o":0.7}],"x":"Hello world"}]`
		doc, err := ParseRichsync(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.Lines) != 1 {
			t.Fatalf("expected 1 line, got %d", len(doc.Lines))
		}
		line := doc.Lines[0]
		if line.StartMs != 1000 || line.EndMs != 3000 || line.Text != "Hello world" {
			t.Errorf("unexpected line: %+v", line)
		}
		want := []Word{
			{StartMs: 1000, EndMs: 1500, Text: "Hello"},
			{StartMs: 1700, EndMs: 3000, Text: "world"},
		}
		if len(line.Words) != len(want) {
			t.Fatalf("words = %+v, want %+v", line.Words, want)
		}
		for i := range want {
			if line.Words[i] != want[i] {
				t.Errorf("word %d = %+v, want %+v", i, line.Words[i], want[i])
			}
		}
		if doc.Format != Musixmatch {
			t.Errorf("format = %s, want musixmatch", doc.Format)
		}
	})

	t.Run("CharactersMerged", func(t *testing.T) {
		raw := `[{"ts":0,"te":1,"l":[{"c":"H","o":0},{"c":"i","o":0.1},{"c":" ","o":0.2},{"c":"y","o":0.3},{"c":"o","o":0.4}],"x":""}]`
		doc, err := ParseRichsync(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		words := doc.Lines[0].Words
		if len(words) != 2 || words[0].Text != "Hi" || words[1].Text != "yo" {
			t.Fatalf("unexpected words: %+v", words)
		}
		if words[0].EndMs != 200 || words[1].StartMs != 300 || words[1].EndMs != 1000 {
			t.Errorf("unexpected word timing: %+v", words)
		}
		if doc.Lines[0].Text != "Hi yo" {
			t.Errorf("text = %q, want %q", doc.Lines[0].Text, "Hi yo")
		}
	})

	t.Run("CJKSeparate", func(t *testing.T) {
		raw := `[{"ts":0,"te":1,"l":[{"c":"你","o":0},{"c":"好","o":0.5}],"x":"你好"}]`
		doc, err := ParseRichsync(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.Lines[0].Words) != 2 {
			t.Errorf("expected one word per character, got %+v", doc.Lines[0].Words)
		}
	})

	t.Run("LineOnly", func(t *testing.T) {
		doc, err := ParseRichsync(`[{"ts":2.5,"te":4,"x":"no words here"}]`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.Lines) != 1 || len(doc.Lines[0].Words) != 0 || doc.Lines[0].StartMs != 2500 {
			t.Errorf("unexpected lines: %+v", doc.Lines)
		}
	})

	t.Run("Envelope", func(t *testing.T) {
		raw := `{"message":{"body":{"richsync":{"richsync_body":"[{\"ts\":1,\"te\":2,\"l\":[],\"x\":\"a\"}]"}}}}`
		doc, err := ParseRichsync(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(doc.Lines) != 1 || doc.Lines[0].Text != "a" {
			t.Errorf("unexpected lines: %+v", doc.Lines)
		}

		doc, err = ParseRichsync(`{"richsync_body":"[]"}`)
		if err != nil || len(doc.Lines) != 0 {
			t.Errorf("expected empty document, got %+v, %v", doc, err)
		}
	})

	t.Run("Unterminated", func(t *testing.T) {
		_, err := ParseRichsync(`[{"ts":1.0,"te":`)
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("expected ErrMalformed, got %v", err)
		}
	})

	t.Run("EnvelopeWithoutBody", func(t *testing.T) {
		_, err := ParseRichsync(`{"status":"ok"}`)
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("expected ErrMalformed, got %v", err)
		}
	})
}

package telegram

import (
	"strings"
	"testing"
)

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantChunks int
	}{
		{"empty", "", 1},
		{"short", "hello", 1},
		{"exactly at limit", strings.Repeat("a", MaxMessageLength), 1},
		{"one over limit", strings.Repeat("a", MaxMessageLength+1), 2},
		{"several times limit", strings.Repeat("a", MaxMessageLength*3), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := SplitMessage(tt.text)
			if len(chunks) != tt.wantChunks {
				t.Errorf("got %d chunks, want %d", len(chunks), tt.wantChunks)
			}
			for i, c := range chunks {
				if len(c) > MaxMessageLength {
					t.Errorf("chunk %d is %d chars, exceeds limit", i, len(c))
				}
			}
		})
	}
}

func TestSplitMessagePrefersNewlines(t *testing.T) {
	para := strings.Repeat("b", 3000)
	text := para + "\n" + para + "\n" + para

	chunks := SplitMessage(text)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	if chunks[0] != para {
		t.Errorf("first chunk is %d chars, want a full paragraph of %d", len(chunks[0]), len(para))
	}
	for i, c := range chunks {
		if strings.HasPrefix(c, "\n") || strings.HasSuffix(c, "\n") {
			t.Errorf("chunk %d has leading or trailing newline", i)
		}
	}
}

func TestSplitMessagePreservesContent(t *testing.T) {
	text := strings.Repeat("line of chat\n", 2000)
	text = strings.TrimRight(text, "\n")

	joined := strings.Join(SplitMessage(text), "\n")
	if joined != text {
		t.Error("rejoined chunks do not match the original text")
	}
}

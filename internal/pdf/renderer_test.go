package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/talkweave/recapbot/internal/database"
)

func TestRender(t *testing.T) {
	msgs := []database.Message{
		{
			ChatID:    100,
			Username:  "alice",
			Text:      "hello there",
			Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ChatID:    100,
			Username:  "bob",
			Text:      strings.Repeat("a long line of chat text ", 40),
			Timestamp: time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC),
		},
	}

	out, err := Render("Chat transcript", msgs)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF header, got %q", out[:min(8, len(out))])
	}
}

func TestRenderEmpty(t *testing.T) {
	out, err := Render("Chat transcript", nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("output does not start with %PDF header")
	}
}

package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	_ "modernc.org/sqlite"

	"github.com/talkweave/recapbot/internal/config"
	"github.com/talkweave/recapbot/internal/database"
)

func testMessages(n int) []database.Message {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msgs := make([]database.Message, n)
	for i := range msgs {
		msgs[i] = database.Message{
			ChatID:    100,
			Username:  fmt.Sprintf("user%d", i),
			Text:      fmt.Sprintf("message %d", i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return msgs
}

func newTestService(t *testing.T, handler http.HandlerFunc) (Service, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc := New(
		config.AIConfig{
			Token:          "test-token",
			BaseURL:        srv.URL + "/v1",
			Model:          "test-model",
			ConnectTimeout: 5 * time.Second,
			RequestTimeout: 10 * time.Second,
		},
		config.SummaryConfig{
			MinMessages:      5,
			TranscriptBudget: 8000,
		},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return svc, srv
}

func TestSummarize(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected request path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"A short recap."}}]}`)
	})

	summary, err := svc.Summarize(context.Background(), testMessages(10), "")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary != "A short recap." {
		t.Errorf("summary = %q, want %q", summary, "A short recap.")
	}
}

func TestSummarizeBelowMinimum(t *testing.T) {
	requests := 0
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	_, err := svc.Summarize(context.Background(), testMessages(3), "")
	if !errors.Is(err, ErrNotEnoughMessages) {
		t.Fatalf("error = %v, want ErrNotEnoughMessages", err)
	}
	if requests != 0 {
		t.Errorf("made %d API requests, want 0", requests)
	}
}

func TestSummarizeRateLimitedNoRetry(t *testing.T) {
	requests := 0
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited","type":"rate_limit_exceeded"}}`)
	})

	_, err := svc.Summarize(context.Background(), testMessages(10), "")
	if err == nil {
		t.Fatal("expected error for rate-limited request")
	}
	if requests != 1 {
		t.Errorf("made %d API requests, want exactly 1 (no retries)", requests)
	}
}

func TestSummarizeEmptyChoices(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[]}`)
	})

	_, err := svc.Summarize(context.Background(), testMessages(10), "")
	if err == nil {
		t.Fatal("expected error for response without choices")
	}
}

func TestBuildTranscript(t *testing.T) {
	msgs := testMessages(3)
	got := BuildTranscript(msgs, 8000)
	want := "[12:00] user0: message 0\n[12:01] user1: message 1\n[12:02] user2: message 2"
	if got != want {
		t.Errorf("transcript = %q, want %q", got, want)
	}
}

func TestBuildTranscriptBudgetKeepsNewest(t *testing.T) {
	msgs := testMessages(100)

	full := BuildTranscript(msgs, 1<<20)
	budget := len(full) / 2
	got := BuildTranscript(msgs, budget)

	if len(got) > budget {
		t.Fatalf("transcript is %d chars, budget %d", len(got), budget)
	}
	if !strings.HasSuffix(full, got) {
		t.Error("budgeted transcript is not a suffix of the full transcript")
	}
	if !strings.Contains(got, "message 99") {
		t.Error("newest message missing from budgeted transcript")
	}
	if strings.Contains(got, "message 0\n") {
		t.Error("oldest message should have been dropped first")
	}
}

func TestBuildTranscriptCapsLongMessages(t *testing.T) {
	msgs := testMessages(1)
	msgs[0].Text = strings.Repeat("x", 5000)

	got := BuildTranscript(msgs, 8000)
	if len(got) > maxMessageChars+len("[12:00] user0: ") {
		t.Errorf("long message not capped, transcript is %d chars", len(got))
	}
}

func TestBuildTranscriptCapCountsRunes(t *testing.T) {
	msgs := testMessages(1)
	msgs[0].Text = strings.Repeat("ж", 2000)

	got := BuildTranscript(msgs, 1<<20)
	if !utf8.ValidString(got) {
		t.Fatal("transcript is not valid UTF-8")
	}

	body := strings.TrimPrefix(got, "[12:00] user0: ")
	if n := utf8.RuneCountInString(body); n != maxMessageChars {
		t.Errorf("capped message has %d runes, want %d", n, maxMessageChars)
	}
}

// Exercises the full path from stored rows to the request the completion API
// receives: rows inserted out of order must arrive in the prompt as one
// transcript in ascending time order.
func TestSummarizeTranscriptFromStore(t *testing.T) {
	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })
	store := database.NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, i := range []int{3, 0, 4, 1, 2} {
		msg := database.Message{
			ChatID:    42,
			Username:  fmt.Sprintf("user%d", i),
			Text:      fmt.Sprintf("message %d", i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.SaveMessage(ctx, &msg); err != nil {
			t.Fatalf("SaveMessage failed: %v", err)
		}
	}

	var gotTranscript string
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		if len(req.Messages) == 2 && req.Messages[1].Role == "user" {
			gotTranscript = req.Messages[1].Content
		} else {
			t.Errorf("unexpected request messages: %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
	})

	stored, err := store.GetMessagesSince(ctx, 42, base.Add(5*time.Minute).Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("GetMessagesSince failed: %v", err)
	}
	if len(stored) != 5 {
		t.Fatalf("got %d stored messages, want 5", len(stored))
	}

	if _, err := svc.Summarize(ctx, stored, ""); err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	want := "[12:00] user0: message 0\n" +
		"[12:01] user1: message 1\n" +
		"[12:02] user2: message 2\n" +
		"[12:03] user3: message 3\n" +
		"[12:04] user4: message 4"
	if gotTranscript != want {
		t.Errorf("transcript sent to API = %q, want %q", gotTranscript, want)
	}
}

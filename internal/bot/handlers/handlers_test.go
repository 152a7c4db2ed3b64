package handlers

import (
	"testing"

	"github.com/go-telegram/bot/models"
)

func TestParseChatIDArg(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantID int64
		wantOK bool
	}{
		{"valid positive", "/pdf 12345", 12345, true},
		{"valid group id", "/pdf -1001234567890", -1001234567890, true},
		{"missing argument", "/pdf", 0, false},
		{"non-numeric", "/pdf abc", 0, false},
		{"too many arguments", "/pdf 123 456", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := parseChatIDArg(tt.text)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("parseChatIDArg(%q) = (%d, %v), want (%d, %v)", tt.text, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestPromptArg(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"with prompt", "/set_prompt Summarize briefly.", "Summarize briefly."},
		{"multi word", "/set_prompt Be terse. Use bullets.", "Be terse. Use bullets."},
		{"no argument", "/set_prompt", ""},
		{"only whitespace", "/set_prompt   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := promptArg(tt.text); got != tt.want {
				t.Errorf("promptArg(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSenderName(t *testing.T) {
	tests := []struct {
		name string
		from *models.User
		want string
	}{
		{"nil user", nil, "unknown"},
		{"username wins", &models.User{ID: 7, Username: "alice", FirstName: "Alice"}, "alice"},
		{"first name fallback", &models.User{ID: 7, FirstName: "Alice"}, "Alice"},
		{"numeric fallback", &models.User{ID: 7}, "User7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := senderName(tt.from); got != tt.want {
				t.Errorf("senderName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPersonalize(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		botInfo *models.User
		want    string
	}{
		{"substitutes username", "Hi, I am @botname!", &models.User{Username: "recap_bot"}, "Hi, I am @recap_bot!"},
		{"nil bot info", "Hi, I am @botname!", nil, "Hi, I am @botname!"},
		{"empty username", "Hi, I am @botname!", &models.User{}, "Hi, I am @botname!"},
		{"no placeholder", "Hello there", &models.User{Username: "recap_bot"}, "Hello there"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := personalize(tt.text, tt.botInfo); got != tt.want {
				t.Errorf("personalize = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsMember(t *testing.T) {
	memberish := []models.ChatMemberType{
		models.ChatMemberTypeOwner,
		models.ChatMemberTypeAdministrator,
		models.ChatMemberTypeMember,
		models.ChatMemberTypeRestricted,
	}
	for _, typ := range memberish {
		if !isMember(typ) {
			t.Errorf("isMember(%v) = false, want true", typ)
		}
	}
	if isMember(models.ChatMemberTypeLeft) || isMember(models.ChatMemberTypeBanned) {
		t.Error("left or banned status should not count as member")
	}
}

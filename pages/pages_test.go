//go:build small
// +build small

package pages

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/portalqa/portal-bdd/shared"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCanonicalMenuItem(t *testing.T) {
	for label, want := range map[string]string{
		"logout":      "Log out",
		" Log  Out ":  "Log out",
		"my services": "My Services",
		"faqs":        "FAQs",
	} {
		got, err := CanonicalMenuItem(label)
		assert.NoError(t, err, label)
		assert.Equal(t, want, got, label)
	}
}

func TestCanonicalMenuItem_unknown(t *testing.T) {
	got, err := CanonicalMenuItem("Account Settings")
	assert.Empty(t, got)
	assert.ErrorIs(t, err, shared.ErrPreconditionNotMet)
	assert.Contains(t, err.Error(), `"Account Settings"`)
}

func TestLooksLikeMailHandler(t *testing.T) {
	for _, url := range []string{
		"mailto:support@example.com",
		"https://outlook.live.com/mail/0/deeplink/compose",
		"https://mail.google.com/mail/?view=cm",
		"https://www.office.com/launch/outlook",
		"https://Gmail.com/",
	} {
		assert.True(t, LooksLikeMailHandler(url), url)
	}
	for _, url := range []string{"", "  ", "https://portal.example.com/support", "about:blank"} {
		assert.False(t, LooksLikeMailHandler(url), url)
	}
}

func TestVerifySupportLink(t *testing.T) {
	assert.NoError(t, VerifySupportLink("support@example.com", "Support@Example.com", "mailto:support@example.com"))
	assert.Error(t, VerifySupportLink("support@example.com", "support@example.com", "https://example.com"))
	assert.Error(t, VerifySupportLink("support@example.com", "help@example.com", "mailto:help@example.com"))
}

func TestRandomFeedback(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		text := RandomFeedback(rand.New(rand.NewSource(seed)))
		if !strings.HasPrefix(text, feedbackPrefix) || !strings.HasSuffix(text, feedbackSuffix) {
			t.Fatalf("unexpected framing: %q", text)
		}
		body := strings.TrimSuffix(strings.TrimPrefix(text, feedbackPrefix), feedbackSuffix)
		words := strings.Fields(body)
		if len(words) < feedbackMinWords || len(words) > feedbackMaxWords {
			t.Fatalf("got %d words", len(words))
		}
	})
}

package pages

import (
	"math/rand"
	"strings"
)

var feedbackWords = []string{
	"system", "feature", "module", "issue", "feedback", "response", "support",
	"user", "application", "working", "problem", "testing", "validation",
	"performance", "screen", "button", "dropdown", "form", "message", "error",
	"success", "option", "input", "field", "data", "random", "selection",
	"page", "action", "request",
}

const (
	feedbackPrefix   = "Feedback: "
	feedbackSuffix   = " #auto"
	feedbackMinWords = 8
	feedbackMaxWords = 15
)

// RandomFeedback builds a throwaway feedback message of 8 to 15 words.
// The " #auto" suffix marks it as generated.
func RandomFeedback(r *rand.Rand) string {
	n := feedbackMinWords + r.Intn(feedbackMaxWords-feedbackMinWords+1)
	words := make([]string, n)
	for i := range words {
		words[i] = feedbackWords[r.Intn(len(feedbackWords))]
	}
	return feedbackPrefix + strings.Join(words, " ") + feedbackSuffix
}

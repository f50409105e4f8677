package router

import "strings"

// Kind names the coarse intent classes mentions are routed into.
type Kind string

const (
	KindSearch    Kind = "web_search"
	KindWorkspace Kind = "slack_query"
	KindChat      Kind = "general_chat"
)

// Search keywords win over workspace keywords, so "search the #general
// channel discussion" still goes to the web path even though it names
// a channel.
var (
	searchKeywords    = []string{"search", "find", "research", "news", "latest", "investigate"}
	workspaceKeywords = []string{"channel", "message", "discuss", "slack", "who", "what"}
)

// Classify buckets a mention by case-insensitive substring match,
// search first, workspace second, chat as the fallback.
func Classify(text string) Kind {
	lower := strings.ToLower(text)
	if containsAny(lower, searchKeywords) {
		return KindSearch
	}
	if containsAny(lower, workspaceKeywords) {
		return KindWorkspace
	}
	return KindChat
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

package domain

import (
	"strings"
	"time"
)

// SourceRef identifies one article used to answer a turn.
type SourceRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SourceSet is the ordered list of articles behind a turn, serialized
// as {"articles": [...]} in the conversations table.
type SourceSet struct {
	Articles []SourceRef `json:"articles"`
}

// ConversationTurn is one recorded exchange. Immutable once written.
type ConversationTurn struct {
	ID            int64
	UserID        string
	Message       string
	Timestamp     time.Time
	Sources       []SourceRef
	ModelResponse string
}

// JoinSources renders sources as a comma-joined "title: url" list, the
// format the chat endpoint returns in its source field.
func JoinSources(sources []SourceRef) string {
	parts := make([]string, 0, len(sources))
	for _, s := range sources {
		parts = append(parts, s.Title+": "+s.URL)
	}
	return strings.Join(parts, ",")
}

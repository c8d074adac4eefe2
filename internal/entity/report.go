package entity

import "time"

// Report types
const (
	TypePoop       = "poop"
	TypeAggressive = "aggressive"
)

// Severities
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Reaction kinds
const (
	ReactionLike   = "like"
	ReactionUpvote = "upvote"
)

var ReactionTypes = []string{ReactionLike, ReactionUpvote}

func ValidReportType(t string) bool {
	return t == TypePoop || t == TypeAggressive
}

func ValidSeverity(s string) bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

func ValidReactionType(t string) bool {
	for _, rt := range ReactionTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// ReactionEvent records one user's active reaction of a given kind.
// Membership is set-like per (report, kind): toggling removes it.
type ReactionEvent struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// Comment is an append-only child of a report. UserName is a snapshot of the
// commenter's display name at post time, never live-joined.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Report is the canonical geo-tagged sighting record. The JSON tags double as
// the persisted layout of the file store documents.
type Report struct {
	ID          string                     `json:"id"`
	Type        string                     `json:"type"`
	Latitude    float64                    `json:"latitude"`
	Longitude   float64                    `json:"longitude"`
	Description string                     `json:"description"`
	Severity    string                     `json:"severity"`
	ImageURL    string                     `json:"imageUrl,omitempty"`
	AuthorID    string                     `json:"authorId,omitempty"`
	AuthorName  string                     `json:"authorName"`
	Timestamp   time.Time                  `json:"timestamp"`
	Comments    []Comment                  `json:"comments"`
	Reactions   map[string][]ReactionEvent `json:"reactions"`
}

// HasReacted reports whether the viewer currently holds a reaction of kind.
func (r *Report) HasReacted(kind, viewerID string) bool {
	if viewerID == "" {
		return false
	}
	for _, ev := range r.Reactions[kind] {
		if ev.UserID == viewerID {
			return true
		}
	}
	return false
}

// Clone deep-copies the report so callers can mutate without aliasing the
// store's in-memory state.
func (r Report) Clone() Report {
	out := r
	out.Comments = append([]Comment(nil), r.Comments...)
	out.Reactions = make(map[string][]ReactionEvent, len(r.Reactions))
	for kind, events := range r.Reactions {
		out.Reactions[kind] = append([]ReactionEvent(nil), events...)
	}
	return out
}

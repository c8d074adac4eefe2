package entity

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Maximum lengths per field, applied after trimming.
const (
	MaxIDLen          = 128
	MaxUserIDLen      = 128
	MaxDisplayNameLen = 40
	MaxBioLen         = 160
	MaxAvatarLen      = 8
	MaxDescriptionLen = 2000
	MaxCommentLen     = 500
	MaxSeverityLen    = 16
)

const (
	DefaultProfileName   = "Goose Watcher"
	DefaultProfileAvatar = "🦢"
)

var sanitizer = bluemonday.StrictPolicy()

// NewID returns a prefixed opaque identifier, e.g. "report_<uuid>".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// NormalizeText strips markup, trims, and truncates free-form input.
func NormalizeText(value string, maxLength int) string {
	cleaned := strings.TrimSpace(sanitizer.Sanitize(value))
	return truncate(cleaned, maxLength)
}

// NormalizeToken trims and truncates opaque values (ids, enum-ish fields)
// without running them through the HTML sanitizer.
func NormalizeToken(value string, maxLength int) string {
	return truncate(strings.TrimSpace(value), maxLength)
}

func truncate(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) > maxLength {
		return string(runes[:maxLength])
	}
	return s
}

// NormalizeTimestamp substitutes fallback for a missing timestamp.
func NormalizeTimestamp(ts, fallback time.Time) time.Time {
	if ts.IsZero() {
		return fallback
	}
	return ts
}

// DefaultDisplayName derives the "Goose Watcher XXXX" handle from the tail of
// the user id.
func DefaultDisplayName(userID string) string {
	if userID == "" {
		return DefaultProfileName
	}
	tail := userID
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return DefaultProfileName + " " + strings.ToUpper(tail)
}

func NormalizeProfile(raw Profile) Profile {
	now := time.Now()
	id := NormalizeToken(raw.ID, MaxUserIDLen)

	displayName := NormalizeText(raw.DisplayName, MaxDisplayNameLen)
	if displayName == "" {
		displayName = DefaultDisplayName(id)
	}

	avatar := NormalizeToken(raw.AvatarEmoji, MaxAvatarLen)
	if avatar == "" {
		avatar = DefaultProfileAvatar
	}

	return Profile{
		ID:          id,
		DisplayName: displayName,
		Bio:         NormalizeText(raw.Bio, MaxBioLen),
		AvatarEmoji: avatar,
		CreatedAt:   NormalizeTimestamp(raw.CreatedAt, now),
		UpdatedAt:   NormalizeTimestamp(raw.UpdatedAt, now),
	}
}

func NormalizeComment(raw Comment, fallback time.Time) Comment {
	id := NormalizeToken(raw.ID, MaxIDLen)
	if id == "" {
		id = NewID("comment")
	}

	userName := NormalizeText(raw.UserName, MaxDisplayNameLen)
	if userName == "" {
		userName = DefaultProfileName
	}

	return Comment{
		ID:        id,
		UserID:    NormalizeToken(raw.UserID, MaxUserIDLen),
		UserName:  userName,
		Text:      NormalizeText(raw.Text, MaxCommentLen),
		Timestamp: NormalizeTimestamp(raw.Timestamp, fallback),
	}
}

func NormalizeReactionEvent(raw ReactionEvent, fallback time.Time) ReactionEvent {
	return ReactionEvent{
		UserID:    NormalizeToken(raw.UserID, MaxUserIDLen),
		Timestamp: NormalizeTimestamp(raw.Timestamp, fallback),
	}
}

// DedupeReactionEvents keeps a single event per user, preferring the latest
// timestamp. Duplicates can appear after concurrent writes to the file store.
func DedupeReactionEvents(events []ReactionEvent) []ReactionEvent {
	byUserID := make(map[string]int)
	deduped := make([]ReactionEvent, 0, len(events))

	for _, event := range events {
		if event.UserID == "" {
			continue
		}
		if i, ok := byUserID[event.UserID]; ok {
			if !event.Timestamp.Before(deduped[i].Timestamp) {
				deduped[i] = event
			}
			continue
		}
		byUserID[event.UserID] = len(deduped)
		deduped = append(deduped, event)
	}

	return deduped
}

// NormalizeReactions shapes the reaction map to the known kinds, normalizing
// and deduping each event list. Unknown kinds are dropped.
func NormalizeReactions(raw map[string][]ReactionEvent, fallback time.Time) map[string][]ReactionEvent {
	normalized := make(map[string][]ReactionEvent, len(ReactionTypes))
	for _, kind := range ReactionTypes {
		events := make([]ReactionEvent, 0, len(raw[kind]))
		for _, ev := range raw[kind] {
			events = append(events, NormalizeReactionEvent(ev, fallback))
		}
		normalized[kind] = DedupeReactionEvents(events)
	}
	return normalized
}

// NormalizeReport coerces a report into canonical shape: strings clamped,
// severity defaulted, comments filtered and ordered, reactions deduped.
// Required-field and bounds validation stay with the caller.
func NormalizeReport(raw Report) Report {
	ts := NormalizeTimestamp(raw.Timestamp, time.Now())

	id := NormalizeToken(raw.ID, MaxIDLen)
	if id == "" {
		id = NewID("report")
	}

	severity := NormalizeToken(raw.Severity, MaxSeverityLen)
	if !ValidSeverity(severity) {
		severity = SeverityMedium
	}

	authorName := NormalizeText(raw.AuthorName, MaxDisplayNameLen)
	if authorName == "" {
		authorName = DefaultProfileName
	}

	comments := make([]Comment, 0, len(raw.Comments))
	for _, c := range raw.Comments {
		normalized := NormalizeComment(c, ts)
		if normalized.UserID == "" || normalized.Text == "" {
			continue
		}
		comments = append(comments, normalized)
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Timestamp.Before(comments[j].Timestamp)
	})

	return Report{
		ID:          id,
		Type:        NormalizeToken(raw.Type, MaxSeverityLen),
		Latitude:    raw.Latitude,
		Longitude:   raw.Longitude,
		Description: NormalizeText(raw.Description, MaxDescriptionLen),
		Severity:    severity,
		ImageURL:    NormalizeToken(raw.ImageURL, 2048),
		AuthorID:    NormalizeToken(raw.AuthorID, MaxUserIDLen),
		AuthorName:  authorName,
		Timestamp:   ts,
		Comments:    comments,
		Reactions:   NormalizeReactions(raw.Reactions, ts),
	}
}

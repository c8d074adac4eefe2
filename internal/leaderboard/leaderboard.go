package leaderboard

import (
	"sort"

	"gwatch.ca/goosewatch/internal/entity"
)

// Contribution weights per activity kind.
const (
	WeightReport   = 5
	WeightComment  = 2
	WeightReaction = 1
)

// DefaultLimit is used when the caller passes a non-positive limit.
const DefaultLimit = 10

// MaxLimit is the internal cap on leaderboard size.
const MaxLimit = 50

// Entry is one ranked contributor. Derived per query, never persisted.
type Entry struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	AvatarEmoji   string `json:"avatarEmoji"`
	Bio           string `json:"bio"`
	ReportCount   int    `json:"reportCount"`
	CommentCount  int    `json:"commentCount"`
	ReactionCount int    `json:"reactionCount"`
	Score         int    `json:"score"`
	Rank          int    `json:"rank"`
}

// ClampLimit maps invalid limits to the default and enforces the internal cap.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Accumulator tallies per-user contributions from raw activity scans.
type Accumulator struct {
	contributions map[string]*Entry
	fallbackNames map[string]string
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		contributions: make(map[string]*Entry),
		fallbackNames: make(map[string]string),
	}
}

func (a *Accumulator) entry(userID string) *Entry {
	e, ok := a.contributions[userID]
	if !ok {
		e = &Entry{UserID: userID}
		a.contributions[userID] = e
	}
	return e
}

// CreditReport credits one authored report (weight 5).
func (a *Accumulator) CreditReport(userID string) {
	if userID == "" {
		return
	}
	e := a.entry(userID)
	e.ReportCount++
	e.Score += WeightReport
}

// CreditComment credits one posted comment (weight 2).
func (a *Accumulator) CreditComment(userID string) {
	if userID == "" {
		return
	}
	e := a.entry(userID)
	e.CommentCount++
	e.Score += WeightComment
}

// CreditReaction credits one given reaction (weight 1).
func (a *Accumulator) CreditReaction(userID string) {
	if userID == "" {
		return
	}
	e := a.entry(userID)
	e.ReactionCount++
	e.Score += WeightReaction
}

// ObserveName records the most recently seen author/commenter name for a user,
// used when no profile exists at finalize time.
func (a *Accumulator) ObserveName(userID, name string) {
	if userID == "" || name == "" {
		return
	}
	a.fallbackNames[userID] = name
}

// Empty reports whether no contributions were credited.
func (a *Accumulator) Empty() bool {
	return len(a.contributions) == 0
}

// UserIDs returns every credited user id, for joining against the profile store.
func (a *Accumulator) UserIDs() []string {
	ids := make([]string, 0, len(a.contributions))
	for id := range a.contributions {
		ids = append(ids, id)
	}
	return ids
}

// Finalize joins profiles, applies the deterministic total order
// (score desc, reports desc, comments desc, reactions desc, name asc),
// truncates to limit, and assigns dense 1-based ranks.
func (a *Accumulator) Finalize(profiles map[string]entity.Profile, limit int) []Entry {
	limit = ClampLimit(limit)

	entries := make([]Entry, 0, len(a.contributions))
	for _, e := range a.contributions {
		entry := *e
		if profile, ok := profiles[e.UserID]; ok {
			entry.DisplayName = profile.DisplayName
			entry.AvatarEmoji = profile.AvatarEmoji
			entry.Bio = profile.Bio
		} else {
			entry.DisplayName = a.fallbackNames[e.UserID]
			entry.AvatarEmoji = entity.DefaultProfileAvatar
		}
		if entry.DisplayName == "" {
			entry.DisplayName = entity.DefaultProfileName
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.ReportCount != b.ReportCount {
			return a.ReportCount > b.ReportCount
		}
		if a.CommentCount != b.CommentCount {
			return a.CommentCount > b.CommentCount
		}
		if a.ReactionCount != b.ReactionCount {
			return a.ReactionCount > b.ReactionCount
		}
		return a.DisplayName < b.DisplayName
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

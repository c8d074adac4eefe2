package dto

import (
	"time"

	"gwatch.ca/goosewatch/internal/leaderboard"
)

// WeeklyLeaderboardResponse wraps the ranked entries with the window metadata
// clients show alongside the board.
type WeeklyLeaderboardResponse struct {
	WindowDays  int                 `json:"windowDays"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Leaderboard []leaderboard.Entry `json:"leaderboard"`
}

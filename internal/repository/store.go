package repository

import (
	"context"
	"time"

	"gwatch.ca/goosewatch/internal/dto"
	"gwatch.ca/goosewatch/internal/entity"
	"gwatch.ca/goosewatch/internal/leaderboard"
)

// Reports are purged once older than the retention window; the leaderboard
// looks back over the contribution window. Both are fixed at one week.
const (
	RetentionDays         = 7
	LeaderboardWindowDays = 7
)

// ReportStore is the capability contract for the report engine. Two backends
// implement it: a JSON file store and a postgres store. Callers must not be
// able to tell them apart by projected output; the backend is selected once
// at process start and never branched on in business logic.
type ReportStore interface {
	// Init bootstraps the backend idempotently (directories/tables/indexes)
	// and runs an initial retention sweep.
	Init(ctx context.Context) error

	GetReports(ctx context.Context, typeFilter, viewerID string) ([]dto.ReportResponse, error)
	GetReportByID(ctx context.Context, id, viewerID string) (*dto.ReportResponse, error)
	CreateReport(ctx context.Context, report entity.Report) (*dto.ReportResponse, error)

	// GetProfileByID returns (nil, nil) when no profile exists; absence is
	// not an error at this layer.
	GetProfileByID(ctx context.Context, id string) (*entity.Profile, error)
	UpsertProfile(ctx context.Context, profile entity.Profile) (*entity.Profile, error)

	AddComment(ctx context.Context, reportID string, comment entity.Comment) (*dto.ReportResponse, error)
	ToggleReaction(ctx context.Context, reportID, userID, reactionType string) (*dto.ReportResponse, error)

	GetWeeklyLeaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error)

	// CleanupOldReports removes reports past the retention window and
	// returns the count removed. Idempotent; safe on an empty store.
	CleanupOldReports(ctx context.Context) (int, error)

	Close() error
}

func retentionCutoff() time.Time {
	return time.Now().AddDate(0, 0, -RetentionDays)
}

func leaderboardCutoff() time.Time {
	return time.Now().AddDate(0, 0, -LeaderboardWindowDays)
}

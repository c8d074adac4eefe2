package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gwatch.ca/goosewatch/internal/dto"
	"gwatch.ca/goosewatch/internal/entity"
	"gwatch.ca/goosewatch/internal/leaderboard"
	"gwatch.ca/goosewatch/internal/model"
	"gwatch.ca/goosewatch/pkg/apperror"
)

// PgStore persists reports in postgres. Every write is a single statement
// keyed by primary key, so the database's per-statement atomicity covers the
// races the file store can only serialize behind its mutex.
type PgStore struct {
	db *gorm.DB
}

func NewPgStore(db *gorm.DB) *PgStore {
	return &PgStore{db: db}
}

// Init creates the schema idempotently and runs an initial sweep. Safe to
// rerun on every boot.
func (s *PgStore) Init(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&model.Report{},
		&model.Profile{},
		&model.ReportComment{},
		&model.ReportReaction{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	_, err = s.CleanupOldReports(ctx)
	return err
}

func (s *PgStore) CleanupOldReports(ctx context.Context) (int, error) {
	res := s.db.WithContext(ctx).
		Where("timestamp < ?", retentionCutoff()).
		Delete(&model.Report{})
	if res.Error != nil {
		return 0, fmt.Errorf("retention sweep failed: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

// queryReports loads report rows plus their comments and reactions, rebuilds
// canonical entities, and projects them for the viewer. The normalizer's
// dedupe pass keeps output identical to the file backend's.
func (s *PgStore) queryReports(ctx context.Context, viewerID string, conds ...any) ([]dto.ReportResponse, error) {
	var rows []model.Report
	q := s.db.WithContext(ctx).Order("timestamp DESC")
	if len(conds) > 0 {
		q = q.Where(conds[0], conds[1:]...)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	if len(rows) == 0 {
		return []dto.ReportResponse{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var commentRows []model.ReportComment
	if err := s.db.WithContext(ctx).
		Where("report_id IN ?", ids).
		Order("timestamp ASC").
		Find(&commentRows).Error; err != nil {
		return nil, fmt.Errorf("failed to query report comments: %w", err)
	}

	var reactionRows []model.ReportReaction
	if err := s.db.WithContext(ctx).
		Where("report_id IN ?", ids).
		Find(&reactionRows).Error; err != nil {
		return nil, fmt.Errorf("failed to query report reactions: %w", err)
	}

	commentsByReport := make(map[string][]entity.Comment)
	for _, row := range commentRows {
		commentsByReport[row.ReportID] = append(commentsByReport[row.ReportID], entity.Comment{
			ID:        row.ID,
			UserID:    row.UserID,
			UserName:  row.UserName,
			Text:      row.Comment,
			Timestamp: row.Timestamp,
		})
	}

	reactionsByReport := make(map[string]map[string][]entity.ReactionEvent)
	for _, row := range reactionRows {
		if !entity.ValidReactionType(row.ReactionType) {
			continue
		}
		if reactionsByReport[row.ReportID] == nil {
			reactionsByReport[row.ReportID] = make(map[string][]entity.ReactionEvent)
		}
		reactionsByReport[row.ReportID][row.ReactionType] = append(
			reactionsByReport[row.ReportID][row.ReactionType],
			entity.ReactionEvent{UserID: row.UserID, Timestamp: row.Timestamp},
		)
	}

	out := make([]dto.ReportResponse, 0, len(rows))
	for _, row := range rows {
		report := entity.NormalizeReport(entity.Report{
			ID:          row.ID,
			Type:        row.Type,
			Latitude:    row.Latitude,
			Longitude:   row.Longitude,
			Description: row.Description,
			Severity:    row.Severity,
			ImageURL:    row.ImageURL,
			AuthorID:    row.AuthorID,
			AuthorName:  row.AuthorName,
			Timestamp:   row.Timestamp,
			Comments:    commentsByReport[row.ID],
			Reactions:   reactionsByReport[row.ID],
		})
		out = append(out, dto.NewReportResponse(report, viewerID))
	}
	return out, nil
}

func (s *PgStore) GetReports(ctx context.Context, typeFilter, viewerID string) ([]dto.ReportResponse, error) {
	if _, err := s.CleanupOldReports(ctx); err != nil {
		return nil, err
	}
	viewerID = entity.NormalizeToken(viewerID, entity.MaxUserIDLen)
	if typeFilter == "" {
		return s.queryReports(ctx, viewerID)
	}
	return s.queryReports(ctx, viewerID, "type = ?", typeFilter)
}

func (s *PgStore) GetReportByID(ctx context.Context, id, viewerID string) (*dto.ReportResponse, error) {
	if _, err := s.CleanupOldReports(ctx); err != nil {
		return nil, err
	}
	viewerID = entity.NormalizeToken(viewerID, entity.MaxUserIDLen)
	reports, err := s.queryReports(ctx, viewerID, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, apperror.ErrNotFound
	}
	return &reports[0], nil
}

func (s *PgStore) CreateReport(ctx context.Context, report entity.Report) (*dto.ReportResponse, error) {
	if _, err := s.CleanupOldReports(ctx); err != nil {
		return nil, err
	}

	normalized := entity.NormalizeReport(report)
	row := model.Report{
		ID:          normalized.ID,
		Type:        normalized.Type,
		Latitude:    normalized.Latitude,
		Longitude:   normalized.Longitude,
		Description: normalized.Description,
		Severity:    normalized.Severity,
		ImageURL:    normalized.ImageURL,
		AuthorID:    normalized.AuthorID,
		AuthorName:  normalized.AuthorName,
		Timestamp:   normalized.Timestamp,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to insert report: %w", err)
	}

	resp := dto.NewReportResponse(normalized, normalized.AuthorID)
	return &resp, nil
}

func (s *PgStore) GetProfileByID(ctx context.Context, id string) (*entity.Profile, error) {
	id = entity.NormalizeToken(id, entity.MaxUserIDLen)
	if id == "" {
		return nil, nil
	}

	var row model.Profile
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	profile := profileFromRow(row)
	return &profile, nil
}

func profileFromRow(row model.Profile) entity.Profile {
	return entity.NormalizeProfile(entity.Profile{
		ID:          row.ID,
		DisplayName: row.DisplayName,
		Bio:         row.Bio,
		AvatarEmoji: row.AvatarEmoji,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	})
}

func (s *PgStore) UpsertProfile(ctx context.Context, profile entity.Profile) (*entity.Profile, error) {
	normalized := entity.NormalizeProfile(profile)
	if normalized.ID == "" {
		return nil, apperror.Validation("profile id is required")
	}

	now := time.Now()
	row := model.Profile{
		ID:          normalized.ID,
		DisplayName: normalized.DisplayName,
		Bio:         normalized.Bio,
		AvatarEmoji: normalized.AvatarEmoji,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"display_name": normalized.DisplayName,
			"bio":          normalized.Bio,
			"avatar_emoji": normalized.AvatarEmoji,
			"updated_at":   now,
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	// Re-read so the caller sees the preserved createdAt on updates.
	return s.GetProfileByID(ctx, normalized.ID)
}

func (s *PgStore) AddComment(ctx context.Context, reportID string, comment entity.Comment) (*dto.ReportResponse, error) {
	if err := s.reportExists(ctx, reportID); err != nil {
		return nil, err
	}

	normalized := entity.NormalizeComment(comment, time.Now())
	if normalized.UserID == "" {
		return nil, apperror.Validation("comment user id is required")
	}
	if normalized.Text == "" {
		return nil, apperror.Validation("comment text is required")
	}

	row := model.ReportComment{
		ID:        normalized.ID,
		ReportID:  reportID,
		UserID:    normalized.UserID,
		UserName:  normalized.UserName,
		Comment:   normalized.Text,
		Timestamp: normalized.Timestamp,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	return s.GetReportByID(ctx, reportID, normalized.UserID)
}

func (s *PgStore) ToggleReaction(ctx context.Context, reportID, userID, reactionType string) (*dto.ReportResponse, error) {
	userID = entity.NormalizeToken(userID, entity.MaxUserIDLen)
	reactionType = entity.NormalizeToken(reactionType, entity.MaxSeverityLen)

	if userID == "" {
		return nil, apperror.Validation("user id is required")
	}
	if !entity.ValidReactionType(reactionType) {
		return nil, apperror.Validation(fmt.Sprintf("invalid reaction type %q", reactionType))
	}
	if err := s.reportExists(ctx, reportID); err != nil {
		return nil, err
	}

	// Delete-first toggle: each branch is one statement on the composite
	// primary key, so concurrent toggles cannot double-insert.
	res := s.db.WithContext(ctx).
		Where("report_id = ? AND user_id = ? AND reaction_type = ?", reportID, userID, reactionType).
		Delete(&model.ReportReaction{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to remove reaction: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		row := model.ReportReaction{
			ReportID:     reportID,
			UserID:       userID,
			ReactionType: reactionType,
			Timestamp:    time.Now(),
		}
		err := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&row).Error
		if err != nil {
			return nil, fmt.Errorf("failed to add reaction: %w", err)
		}
	}

	return s.GetReportByID(ctx, reportID, userID)
}

func (s *PgStore) reportExists(ctx context.Context, reportID string) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Report{}).
		Where("id = ?", reportID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check report: %w", err)
	}
	if count == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (s *PgStore) GetWeeklyLeaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	cutoff := leaderboardCutoff()
	acc := leaderboard.NewAccumulator()

	type userRow struct {
		UserID   string
		UserName string
	}

	var authorRows []userRow
	err := s.db.WithContext(ctx).
		Model(&model.Report{}).
		Select("author_id AS user_id, author_name AS user_name").
		Where("author_id <> '' AND timestamp >= ?", cutoff).
		Scan(&authorRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan report contributions: %w", err)
	}
	for _, row := range authorRows {
		acc.CreditReport(row.UserID)
		acc.ObserveName(row.UserID, row.UserName)
	}

	var commentRows []userRow
	err = s.db.WithContext(ctx).
		Model(&model.ReportComment{}).
		Select("user_id, user_name").
		Where("timestamp >= ?", cutoff).
		Scan(&commentRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan comment contributions: %w", err)
	}
	for _, row := range commentRows {
		acc.CreditComment(row.UserID)
		acc.ObserveName(row.UserID, row.UserName)
	}

	var reactionRows []userRow
	err = s.db.WithContext(ctx).
		Model(&model.ReportReaction{}).
		Select("user_id").
		Where("timestamp >= ?", cutoff).
		Scan(&reactionRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan reaction contributions: %w", err)
	}
	for _, row := range reactionRows {
		acc.CreditReaction(row.UserID)
	}

	if acc.Empty() {
		return []leaderboard.Entry{}, nil
	}

	var profileRows []model.Profile
	err = s.db.WithContext(ctx).
		Where("id IN ?", acc.UserIDs()).
		Find(&profileRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard profiles: %w", err)
	}
	profiles := make(map[string]entity.Profile, len(profileRows))
	for _, row := range profileRows {
		profiles[row.ID] = profileFromRow(row)
	}

	return acc.Finalize(profiles, limit), nil
}

func (s *PgStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

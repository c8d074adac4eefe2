package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gwatch.ca/goosewatch/internal/entity"
	"gwatch.ca/goosewatch/pkg/apperror"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s := NewFileStore(t.TempDir())
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("failed to init file store: %v", err)
	}
	return s
}

func makeReport(reportType, authorID string, ts time.Time) entity.Report {
	return entity.Report{
		Type:      reportType,
		Latitude:  43.4700,
		Longitude: -80.5400,
		AuthorID:  authorID,
		Timestamp: ts,
	}
}

func TestCreateReportStartsClean(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	report := makeReport(entity.TypePoop, "u1", time.Now())
	report.Severity = entity.SeverityHigh

	created, err := s.CreateReport(ctx, report)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Severity != entity.SeverityHigh {
		t.Errorf("expected severity high, got %q", created.Severity)
	}
	if created.Reactions.Like != 0 || created.Reactions.Upvote != 0 {
		t.Errorf("expected zero reaction counts, got %+v", created.Reactions)
	}
	if created.CommentCount != 0 {
		t.Errorf("expected zero comments, got %d", created.CommentCount)
	}
	if created.ID == "" {
		t.Error("expected generated id")
	}
}

func TestGetReportsFilterAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	if _, err := s.CreateReport(ctx, makeReport(entity.TypePoop, "u1", now.Add(-2*time.Hour))); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateReport(ctx, makeReport(entity.TypeAggressive, "u1", now.Add(-time.Hour))); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateReport(ctx, makeReport(entity.TypePoop, "u1", now)); err != nil {
		t.Fatal(err)
	}

	all, err := s.GetReports(ctx, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp.After(all[i-1].Timestamp) {
			t.Error("reports not in newest-first order")
		}
	}

	poop, err := s.GetReports(ctx, entity.TypePoop, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(poop) != 2 {
		t.Errorf("expected 2 poop reports, got %d", len(poop))
	}
}

func TestToggleReactionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateReport(ctx, makeReport(entity.TypePoop, "author", time.Now()))
	if err != nil {
		t.Fatal(err)
	}

	after, err := s.ToggleReaction(ctx, created.ID, "u1", entity.ReactionLike)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if after.Reactions.Like != 1 {
		t.Errorf("expected like count 1, got %d", after.Reactions.Like)
	}
	if !after.ViewerReactions.Like {
		t.Error("expected viewer like flag set after first toggle")
	}

	again, err := s.ToggleReaction(ctx, created.ID, "u1", entity.ReactionLike)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if again.Reactions.Like != 0 {
		t.Errorf("toggle round trip must restore count 0, got %d", again.Reactions.Like)
	}
	if again.ViewerReactions.Like {
		t.Error("viewer like flag must clear after second toggle")
	}
}

func TestTwoViewersUpvote(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateReport(ctx, makeReport(entity.TypeAggressive, "author", time.Now()))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.ToggleReaction(ctx, created.ID, "u1", entity.ReactionUpvote); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToggleReaction(ctx, created.ID, "u2", entity.ReactionUpvote); err != nil {
		t.Fatal(err)
	}

	forU1, err := s.GetReportByID(ctx, created.ID, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if forU1.Reactions.Upvote != 2 {
		t.Errorf("expected upvote count 2, got %d", forU1.Reactions.Upvote)
	}
	if !forU1.ViewerReactions.Upvote {
		t.Error("u1 should see their own upvote flag")
	}

	forStranger, err := s.GetReportByID(ctx, created.ID, "u3")
	if err != nil {
		t.Fatal(err)
	}
	if forStranger.Reactions.Upvote != 2 {
		t.Errorf("stranger should still see count 2, got %d", forStranger.Reactions.Upvote)
	}
	if forStranger.ViewerReactions.Upvote {
		t.Error("stranger must not see an upvote flag")
	}
}

func TestToggleReactionValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateReport(ctx, makeReport(entity.TypePoop, "author", time.Now()))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.ToggleReaction(ctx, created.ID, "u1", "anger"); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("expected validation error for unknown kind, got %v", err)
	}
	if _, err := s.ToggleReaction(ctx, created.ID, "", entity.ReactionLike); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("expected validation error for empty user, got %v", err)
	}
	if _, err := s.ToggleReaction(ctx, "missing", "u1", entity.ReactionLike); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected not-found for unknown report, got %v", err)
	}
}

func TestAddComment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateReport(ctx, makeReport(entity.TypePoop, "author", time.Now()))
	if err != nil {
		t.Fatal(err)
	}

	after, err := s.AddComment(ctx, created.ID, entity.Comment{
		UserID:   "u1",
		UserName: "Casey",
		Text:     "saw this too",
	})
	if err != nil {
		t.Fatalf("add comment failed: %v", err)
	}
	if after.CommentCount != 1 {
		t.Fatalf("expected 1 comment, got %d", after.CommentCount)
	}
	if after.Comments[0].UserName != "Casey" || after.Comments[0].Text != "saw this too" {
		t.Errorf("unexpected comment: %+v", after.Comments[0])
	}
}

func TestAddCommentRejections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateReport(ctx, makeReport(entity.TypePoop, "author", time.Now()))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.AddComment(ctx, created.ID, entity.Comment{UserID: "u1", Text: "   "}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("expected validation error for blank text, got %v", err)
	}
	if _, err := s.AddComment(ctx, created.ID, entity.Comment{Text: "hello"}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("expected validation error for missing user, got %v", err)
	}
	if _, err := s.AddComment(ctx, "missing", entity.Comment{UserID: "u1", Text: "hello"}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected not-found for unknown report, got %v", err)
	}

	unchanged, err := s.GetReportByID(ctx, created.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if unchanged.CommentCount != 0 {
		t.Errorf("rejected comments must not change the report, got %d comments", unchanged.CommentCount)
	}
}

func TestRetentionSweep(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	fresh, err := s.CreateReport(ctx, makeReport(entity.TypePoop, "u1", time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	// Insert the expired report below the CreateReport sweep by seeding the
	// in-memory state directly.
	s.mu.Lock()
	old := entity.NormalizeReport(makeReport(entity.TypePoop, "u1", time.Now().AddDate(0, 0, -8)))
	s.reports = append(s.reports, old)
	s.mu.Unlock()

	removed, err := s.CleanupOldReports(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 report removed, got %d", removed)
	}

	reports, err := s.GetReports(ctx, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 1 || reports[0].ID != fresh.ID {
		t.Errorf("sweep should keep only the fresh report, got %+v", reports)
	}

	// Idempotent on an already-clean store.
	removed, err = s.CleanupOldReports(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("expected nothing left to remove, got %d", removed)
	}
}

func TestProfileUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.UpsertProfile(ctx, entity.Profile{ID: "u1", DisplayName: "Goose Fan", Bio: "hi"})
	if err != nil {
		t.Fatalf("initial upsert failed: %v", err)
	}
	if !first.CreatedAt.Equal(first.UpdatedAt) {
		t.Errorf("fresh profile must have createdAt == updatedAt, got %v / %v", first.CreatedAt, first.UpdatedAt)
	}

	time.Sleep(10 * time.Millisecond)

	second, err := s.UpsertProfile(ctx, entity.Profile{ID: "u1", DisplayName: "Renamed"})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("upsert must preserve createdAt: %v vs %v", second.CreatedAt, first.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("upsert must advance updatedAt: %v vs %v", second.UpdatedAt, first.UpdatedAt)
	}
	if second.DisplayName != "Renamed" {
		t.Errorf("expected updated display name, got %q", second.DisplayName)
	}

	missing, err := s.GetProfileByID(ctx, "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("absent profile must be nil, got %+v", missing)
	}

	if _, err := s.UpsertProfile(ctx, entity.Profile{DisplayName: "No ID"}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("expected validation error for missing id, got %v", err)
	}
}

func TestWeeklyLeaderboardThroughStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateReport(ctx, makeReport(entity.TypePoop, "author", time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddComment(ctx, created.ID, entity.Comment{UserID: "commenter", UserName: "Commenter", Text: "yikes"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToggleReaction(ctx, created.ID, "reactor", entity.ReactionLike); err != nil {
		t.Fatal(err)
	}

	entries, err := s.GetWeeklyLeaderboard(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 contributors, got %d", len(entries))
	}
	if entries[0].UserID != "author" || entries[0].Score != 5 {
		t.Errorf("expected author first with score 5, got %+v", entries[0])
	}
	if entries[1].UserID != "commenter" || entries[1].Score != 2 {
		t.Errorf("expected commenter second with score 2, got %+v", entries[1])
	}
	if entries[2].UserID != "reactor" || entries[2].Score != 1 {
		t.Errorf("expected reactor third with score 1, got %+v", entries[2])
	}
}

func TestReloadFromDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := NewFileStore(dir)
	if err := s.Init(ctx); err != nil {
		t.Fatal(err)
	}
	created, err := s.CreateReport(ctx, makeReport(entity.TypePoop, "u1", time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ToggleReaction(ctx, created.ID, "u2", entity.ReactionLike); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpsertProfile(ctx, entity.Profile{ID: "u1", DisplayName: "Goose Fan"}); err != nil {
		t.Fatal(err)
	}

	reloaded := NewFileStore(dir)
	if err := reloaded.Init(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	report, err := reloaded.GetReportByID(ctx, created.ID, "u2")
	if err != nil {
		t.Fatalf("report lost across reload: %v", err)
	}
	if report.Reactions.Like != 1 || !report.ViewerReactions.Like {
		t.Errorf("reaction state lost across reload: %+v", report)
	}

	profile, err := reloaded.GetProfileByID(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if profile == nil || profile.DisplayName != "Goose Fan" {
		t.Errorf("profile lost across reload: %+v", profile)
	}
}

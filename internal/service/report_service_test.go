package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gwatch.ca/goosewatch/internal/dto"
	"gwatch.ca/goosewatch/internal/entity"
	"gwatch.ca/goosewatch/internal/repository"
	"gwatch.ca/goosewatch/pkg/apperror"
)

func newTestService(t *testing.T) (ReportService, *repository.FileStore) {
	t.Helper()
	store := repository.NewFileStore(t.TempDir())
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return NewReportService(store, nil, 5*time.Second), store
}

func TestSubmitReportOnCampus(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.SubmitReport(context.Background(), dto.CreateReportRequest{
		Type:      entity.TypePoop,
		Latitude:  "43.4700",
		Longitude: "-80.5400",
		Severity:  entity.SeverityHigh,
	}, "")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if created.Type != entity.TypePoop {
		t.Errorf("expected type poop, got %q", created.Type)
	}
	if created.Severity != entity.SeverityHigh {
		t.Errorf("expected severity high, got %q", created.Severity)
	}
	if created.Latitude != 43.47 || created.Longitude != -80.54 {
		t.Errorf("coordinates not preserved: %v, %v", created.Latitude, created.Longitude)
	}
	if created.Reactions.Like != 0 || created.Reactions.Upvote != 0 {
		t.Errorf("new report must start with zero reactions: %+v", created.Reactions)
	}
}

func TestSubmitReportRejectsOffCampus(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name     string
		lat, lng string
	}{
		{"toronto", "43.6532", "-79.3832"},
		{"north of campus", "43.4900", "-80.5400"},
		{"west of campus", "43.4700", "-80.5600"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitReport(context.Background(), dto.CreateReportRequest{
				Type:      entity.TypePoop,
				Latitude:  tc.lat,
				Longitude: tc.lng,
			}, "")
			if !errors.Is(err, apperror.ErrInvalidInput) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSubmitReportRejectsBadCoordinates(t *testing.T) {
	svc, _ := newTestService(t)

	for _, lat := range []string{"", "abc", "NaN", "+Inf"} {
		_, err := svc.SubmitReport(context.Background(), dto.CreateReportRequest{
			Type:      entity.TypeAggressive,
			Latitude:  lat,
			Longitude: "-80.5400",
		}, "")
		if !errors.Is(err, apperror.ErrInvalidInput) {
			t.Errorf("latitude %q: expected validation error, got %v", lat, err)
		}
	}
}

func TestSubmitReportRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SubmitReport(context.Background(), dto.CreateReportRequest{
		Type:      "honking",
		Latitude:  "43.4700",
		Longitude: "-80.5400",
	}, "")
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("expected validation error for unknown type, got %v", err)
	}
}

func TestSubmitReportCreatesProfileLazily(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	created, err := svc.SubmitReport(ctx, dto.CreateReportRequest{
		Type:      entity.TypePoop,
		Latitude:  "43.4700",
		Longitude: "-80.5400",
		UserID:    "user_abcd1234",
	}, "")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if created.AuthorName != "Goose Watcher 1234" {
		t.Errorf("expected derived author name, got %q", created.AuthorName)
	}

	profile, err := store.GetProfileByID(ctx, "user_abcd1234")
	if err != nil {
		t.Fatal(err)
	}
	if profile == nil {
		t.Fatal("expected a profile to be created on first report")
	}
	if profile.DisplayName != "Goose Watcher 1234" {
		t.Errorf("expected default display name, got %q", profile.DisplayName)
	}
	if profile.AvatarEmoji != entity.DefaultProfileAvatar {
		t.Errorf("expected default avatar, got %q", profile.AvatarEmoji)
	}
}

func TestCommentUsesProfileDisplayName(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := store.UpsertProfile(ctx, entity.Profile{ID: "u1", DisplayName: "Quad Regular"}); err != nil {
		t.Fatal(err)
	}

	report, err := svc.SubmitReport(ctx, dto.CreateReportRequest{
		Type:      entity.TypeAggressive,
		Latitude:  "43.4700",
		Longitude: "-80.5400",
	}, "")
	if err != nil {
		t.Fatal(err)
	}

	after, err := svc.AddComment(ctx, report.ID, dto.AddCommentRequest{
		UserID:   "u1",
		UserName: "Someone Else",
		Text:     "it hissed at me",
	})
	if err != nil {
		t.Fatalf("add comment failed: %v", err)
	}
	if after.Comments[0].UserName != "Quad Regular" {
		t.Errorf("profile display name must win over the request snapshot, got %q", after.Comments[0].UserName)
	}
}

func TestCommentRejectionsLeaveReportUnchanged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	report, err := svc.SubmitReport(ctx, dto.CreateReportRequest{
		Type:      entity.TypePoop,
		Latitude:  "43.4700",
		Longitude: "-80.5400",
	}, "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AddComment(ctx, report.ID, dto.AddCommentRequest{UserID: "u1", Text: "  "}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("expected validation error for blank text, got %v", err)
	}
	if _, err := svc.AddComment(ctx, report.ID, dto.AddCommentRequest{Text: "no user"}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("expected validation error for missing user, got %v", err)
	}

	current, err := svc.GetReport(ctx, report.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if current.CommentCount != 0 {
		t.Errorf("rejected comments must not be stored, got %d", current.CommentCount)
	}
}

func TestListReportsRejectsUnknownFilter(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.ListReports(context.Background(), "honking", ""); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("expected validation error for unknown type filter, got %v", err)
	}
}

func TestRateLimitWithoutRedisAllows(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// With no redis client configured the cooldown is not enforced.
	for i := 0; i < 2; i++ {
		_, err := svc.SubmitReport(ctx, dto.CreateReportRequest{
			Type:      entity.TypePoop,
			Latitude:  "43.4700",
			Longitude: "-80.5400",
			UserID:    "user_rapid",
		}, "")
		if err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
	}
}

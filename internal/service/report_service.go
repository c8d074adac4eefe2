package service

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gwatch.ca/goosewatch/internal/campus"
	"gwatch.ca/goosewatch/internal/dto"
	"gwatch.ca/goosewatch/internal/entity"
	"gwatch.ca/goosewatch/internal/leaderboard"
	"gwatch.ca/goosewatch/internal/repository"
	"gwatch.ca/goosewatch/pkg/apperror"
)

const actionSubmitReport = "submit_report"

type ReportService interface {
	ListReports(ctx context.Context, typeFilter, viewerID string) ([]dto.ReportResponse, error)
	GetReport(ctx context.Context, id, viewerID string) (*dto.ReportResponse, error)
	SubmitReport(ctx context.Context, req dto.CreateReportRequest, imageURL string) (*dto.ReportResponse, error)
	AddComment(ctx context.Context, reportID string, req dto.AddCommentRequest) (*dto.ReportResponse, error)
	ToggleReaction(ctx context.Context, reportID string, req dto.ToggleReactionRequest) (*dto.ReportResponse, error)
	WeeklyLeaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error)
}

type reportService struct {
	store       repository.ReportStore
	redisClient *redis.Client
	cooldown    time.Duration
}

func NewReportService(store repository.ReportStore, redisClient *redis.Client, cooldown time.Duration) ReportService {
	return &reportService{
		store:       store,
		redisClient: redisClient,
		cooldown:    cooldown,
	}
}

func (s *reportService) ListReports(ctx context.Context, typeFilter, viewerID string) ([]dto.ReportResponse, error) {
	if typeFilter != "" && !entity.ValidReportType(typeFilter) {
		return nil, apperror.Validation("report type must be poop or aggressive")
	}
	return s.store.GetReports(ctx, typeFilter, viewerID)
}

func (s *reportService) GetReport(ctx context.Context, id, viewerID string) (*dto.ReportResponse, error) {
	return s.store.GetReportByID(ctx, id, viewerID)
}

func (s *reportService) SubmitReport(ctx context.Context, req dto.CreateReportRequest, imageURL string) (*dto.ReportResponse, error) {
	if !entity.ValidReportType(req.Type) {
		return nil, apperror.Validation("report type must be poop or aggressive")
	}

	lat, latErr := strconv.ParseFloat(req.Latitude, 64)
	lng, lngErr := strconv.ParseFloat(req.Longitude, 64)
	if latErr != nil || lngErr != nil || math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return nil, apperror.Validation("invalid latitude or longitude values")
	}

	if !campus.UW.Contains(lat, lng) {
		return nil, apperror.Validation("location must be within University of Waterloo campus boundaries")
	}

	userID := entity.NormalizeToken(req.UserID, entity.MaxUserIDLen)
	if userID != "" {
		ok, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, actionSubmitReport, s.cooldown)
		if err != nil {
			// Rate limiting is best-effort; a broken redis must not block reports.
			log.Printf("rate limit check failed for %s: %v", userID, err)
		} else if !ok {
			return nil, apperror.New(http.StatusTooManyRequests,
				"please wait before submitting another report", apperror.ErrRateLimitExceeded)
		}
	}

	authorName := s.resolveDisplayName(ctx, userID, req.UserName)

	report := entity.Report{
		Type:        req.Type,
		Latitude:    lat,
		Longitude:   lng,
		Description: req.Description,
		Severity:    req.Severity,
		ImageURL:    imageURL,
		AuthorID:    userID,
		AuthorName:  authorName,
		Timestamp:   time.Now(),
	}

	return s.store.CreateReport(ctx, report)
}

func (s *reportService) AddComment(ctx context.Context, reportID string, req dto.AddCommentRequest) (*dto.ReportResponse, error) {
	userID := entity.NormalizeToken(req.UserID, entity.MaxUserIDLen)
	if userID == "" {
		return nil, apperror.Validation("comment user id is required")
	}

	comment := entity.Comment{
		UserID:    userID,
		UserName:  s.resolveDisplayName(ctx, userID, req.UserName),
		Text:      req.Text,
		Timestamp: time.Now(),
	}

	return s.store.AddComment(ctx, reportID, comment)
}

func (s *reportService) ToggleReaction(ctx context.Context, reportID string, req dto.ToggleReactionRequest) (*dto.ReportResponse, error) {
	return s.store.ToggleReaction(ctx, reportID, req.UserID, req.ReactionType)
}

func (s *reportService) WeeklyLeaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	return s.store.GetWeeklyLeaderboard(ctx, limit)
}

// resolveDisplayName prefers the stored profile's display name over the
// request's snapshot, creating a default profile lazily for first-time
// contributors. Profile failures degrade to the request name; they never
// block the write itself.
func (s *reportService) resolveDisplayName(ctx context.Context, userID, requestName string) string {
	if userID == "" {
		return entity.NormalizeText(requestName, entity.MaxDisplayNameLen)
	}

	profile, err := s.store.GetProfileByID(ctx, userID)
	if err != nil {
		log.Printf("profile lookup failed for %s: %v", userID, err)
		return entity.NormalizeText(requestName, entity.MaxDisplayNameLen)
	}
	if profile != nil {
		return profile.DisplayName
	}

	created, err := s.store.UpsertProfile(ctx, entity.Profile{
		ID:          userID,
		DisplayName: requestName,
	})
	if err != nil {
		log.Printf("lazy profile creation failed for %s: %v", userID, err)
		return entity.NormalizeText(requestName, entity.MaxDisplayNameLen)
	}
	return created.DisplayName
}

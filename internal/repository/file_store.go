package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gwatch.ca/goosewatch/internal/dto"
	"gwatch.ca/goosewatch/internal/entity"
	"gwatch.ca/goosewatch/internal/leaderboard"
	"gwatch.ca/goosewatch/pkg/apperror"
)

// FileStore keeps the full dataset in memory and rewrites two JSON documents
// wholesale on every mutation. A mutex serializes operations; each mutation is
// built against a copy and committed only after the rewrite succeeds, so a
// failed disk write never leaves memory and disk divergent.
type FileStore struct {
	mu           sync.Mutex
	dir          string
	reportsFile  string
	profilesFile string
	reports      []entity.Report
	profiles     []entity.Profile
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir:          dir,
		reportsFile:  filepath.Join(dir, "reports.json"),
		profilesFile: filepath.Join(dir, "profiles.json"),
	}
}

func (s *FileStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var rawReports []entity.Report
	loadArray(s.reportsFile, &rawReports)
	s.reports = make([]entity.Report, 0, len(rawReports))
	for _, r := range rawReports {
		s.reports = append(s.reports, entity.NormalizeReport(r))
	}

	var rawProfiles []entity.Profile
	loadArray(s.profilesFile, &rawProfiles)
	s.profiles = make([]entity.Profile, 0, len(rawProfiles))
	for _, p := range rawProfiles {
		normalized := entity.NormalizeProfile(p)
		if normalized.ID == "" {
			continue
		}
		s.profiles = append(s.profiles, normalized)
	}

	s.sweepLocked()
	return nil
}

// loadArray reads a JSON array document; a missing or unreadable file yields
// an empty slice, matching a fresh store.
func loadArray(path string, out any) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("error loading %s: %v", path, err)
		}
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("error parsing %s: %v", path, err)
	}
}

func saveArray(path string, payload any) error {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// sweepLocked drops reports past the retention window. A failed rewrite is
// logged but does not undo the in-memory removal: expired reports must never
// resurface in reads.
func (s *FileStore) sweepLocked() int {
	cutoff := retentionCutoff()
	kept := s.reports[:0:0]
	for _, r := range s.reports {
		if r.Timestamp.After(cutoff) {
			kept = append(kept, r)
		}
	}

	removed := len(s.reports) - len(kept)
	if removed > 0 {
		s.reports = kept
		if err := saveArray(s.reportsFile, s.reports); err != nil {
			log.Printf("retention sweep persist failed: %v", err)
		}
	}
	return removed
}

func (s *FileStore) CleanupOldReports(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(), nil
}

func (s *FileStore) GetReports(ctx context.Context, typeFilter, viewerID string) ([]dto.ReportResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	viewerID = entity.NormalizeToken(viewerID, entity.MaxUserIDLen)

	filtered := make([]entity.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if typeFilter == "" || r.Type == typeFilter {
			filtered = append(filtered, r)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	out := make([]dto.ReportResponse, 0, len(filtered))
	for _, r := range filtered {
		out = append(out, dto.NewReportResponse(r, viewerID))
	}
	return out, nil
}

func (s *FileStore) GetReportByID(ctx context.Context, id, viewerID string) (*dto.ReportResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	viewerID = entity.NormalizeToken(viewerID, entity.MaxUserIDLen)
	for _, r := range s.reports {
		if r.ID == id {
			resp := dto.NewReportResponse(r, viewerID)
			return &resp, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (s *FileStore) CreateReport(ctx context.Context, report entity.Report) (*dto.ReportResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	normalized := entity.NormalizeReport(report)

	next := append(s.reports[:len(s.reports):len(s.reports)], normalized)
	if err := saveArray(s.reportsFile, next); err != nil {
		return nil, err
	}
	s.reports = next

	resp := dto.NewReportResponse(normalized, normalized.AuthorID)
	return &resp, nil
}

func (s *FileStore) GetProfileByID(ctx context.Context, id string) (*entity.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id = entity.NormalizeToken(id, entity.MaxUserIDLen)
	if id == "" {
		return nil, nil
	}
	return s.findProfileLocked(id), nil
}

func (s *FileStore) findProfileLocked(id string) *entity.Profile {
	for i := range s.profiles {
		if s.profiles[i].ID == id {
			p := s.profiles[i]
			return &p
		}
	}
	return nil
}

func (s *FileStore) UpsertProfile(ctx context.Context, profile entity.Profile) (*entity.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := entity.NormalizeProfile(profile)
	if normalized.ID == "" {
		return nil, apperror.Validation("profile id is required")
	}

	now := time.Now()
	next := append([]entity.Profile(nil), s.profiles...)

	found := false
	for i := range next {
		if next[i].ID == normalized.ID {
			// Preserve createdAt, advance updatedAt.
			next[i].DisplayName = normalized.DisplayName
			next[i].Bio = normalized.Bio
			next[i].AvatarEmoji = normalized.AvatarEmoji
			next[i].UpdatedAt = now
			found = true
			break
		}
	}
	if !found {
		normalized.CreatedAt = now
		normalized.UpdatedAt = now
		next = append(next, normalized)
	}

	if err := saveArray(s.profilesFile, next); err != nil {
		return nil, err
	}
	s.profiles = next

	return s.findProfileLocked(normalized.ID), nil
}

func (s *FileStore) AddComment(ctx context.Context, reportID string, comment entity.Comment) (*dto.ReportResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	idx := s.findReportLocked(reportID)
	if idx < 0 {
		return nil, apperror.ErrNotFound
	}

	normalized := entity.NormalizeComment(comment, time.Now())
	if normalized.UserID == "" {
		return nil, apperror.Validation("comment user id is required")
	}
	if normalized.Text == "" {
		return nil, apperror.Validation("comment text is required")
	}

	updated := s.reports[idx].Clone()
	updated.Comments = append(updated.Comments, normalized)

	next := append([]entity.Report(nil), s.reports...)
	next[idx] = updated
	if err := saveArray(s.reportsFile, next); err != nil {
		return nil, err
	}
	s.reports = next

	resp := dto.NewReportResponse(updated, normalized.UserID)
	return &resp, nil
}

func (s *FileStore) ToggleReaction(ctx context.Context, reportID, userID, reactionType string) (*dto.ReportResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	userID = entity.NormalizeToken(userID, entity.MaxUserIDLen)
	reactionType = entity.NormalizeToken(reactionType, entity.MaxSeverityLen)

	if userID == "" {
		return nil, apperror.Validation("user id is required")
	}
	if !entity.ValidReactionType(reactionType) {
		return nil, apperror.Validation(fmt.Sprintf("invalid reaction type %q", reactionType))
	}

	idx := s.findReportLocked(reportID)
	if idx < 0 {
		return nil, apperror.ErrNotFound
	}

	updated := s.reports[idx].Clone()
	events := updated.Reactions[reactionType]

	existing := -1
	for i, ev := range events {
		if ev.UserID == userID {
			existing = i
			break
		}
	}
	if existing >= 0 {
		events = append(events[:existing], events[existing+1:]...)
	} else {
		events = append(events, entity.ReactionEvent{UserID: userID, Timestamp: time.Now()})
	}
	updated.Reactions[reactionType] = entity.DedupeReactionEvents(events)

	next := append([]entity.Report(nil), s.reports...)
	next[idx] = updated
	if err := saveArray(s.reportsFile, next); err != nil {
		return nil, err
	}
	s.reports = next

	resp := dto.NewReportResponse(updated, userID)
	return &resp, nil
}

func (s *FileStore) findReportLocked(id string) int {
	for i := range s.reports {
		if s.reports[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *FileStore) GetWeeklyLeaderboard(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	cutoff := leaderboardCutoff()
	acc := leaderboard.NewAccumulator()

	for _, r := range s.reports {
		if r.AuthorID != "" && !r.Timestamp.Before(cutoff) {
			acc.CreditReport(r.AuthorID)
			acc.ObserveName(r.AuthorID, r.AuthorName)
		}
		for _, c := range r.Comments {
			if !c.Timestamp.Before(cutoff) {
				acc.CreditComment(c.UserID)
				acc.ObserveName(c.UserID, c.UserName)
			}
		}
		for _, kind := range entity.ReactionTypes {
			for _, ev := range r.Reactions[kind] {
				if !ev.Timestamp.Before(cutoff) {
					acc.CreditReaction(ev.UserID)
				}
			}
		}
	}

	profiles := make(map[string]entity.Profile, len(s.profiles))
	for _, p := range s.profiles {
		profiles[p.ID] = p
	}

	return acc.Finalize(profiles, limit), nil
}

func (s *FileStore) Close() error {
	return nil
}

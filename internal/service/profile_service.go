package service

import (
	"context"

	"gwatch.ca/goosewatch/internal/dto"
	"gwatch.ca/goosewatch/internal/entity"
	"gwatch.ca/goosewatch/internal/repository"
	"gwatch.ca/goosewatch/pkg/apperror"
)

type ProfileService interface {
	GetProfile(ctx context.Context, id string) (*dto.ProfileResponse, error)
	UpsertProfile(ctx context.Context, id string, req dto.UpsertProfileRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	store repository.ReportStore
}

func NewProfileService(store repository.ReportStore) ProfileService {
	return &profileService{store: store}
}

func (s *profileService) GetProfile(ctx context.Context, id string) (*dto.ProfileResponse, error) {
	profile, err := s.store.GetProfileByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperror.ErrNotFound
	}
	resp := dto.NewProfileResponse(*profile)
	return &resp, nil
}

func (s *profileService) UpsertProfile(ctx context.Context, id string, req dto.UpsertProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.store.UpsertProfile(ctx, entity.Profile{
		ID:          id,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarEmoji: req.AvatarEmoji,
	})
	if err != nil {
		return nil, err
	}
	resp := dto.NewProfileResponse(*profile)
	return &resp, nil
}

package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/inkwell-cms/inkwell/internal/dto"
	"github.com/inkwell-cms/inkwell/internal/model"
	"github.com/inkwell-cms/inkwell/internal/repository"
	"github.com/inkwell-cms/inkwell/pkg/storage"
)

type ProfileService interface {
	GetByUsername(ctx context.Context, username string) (*dto.ProfileResponse, error)
	GetCurrent(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	Update(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (*dto.ProfileResponse, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error)
}

type profileService struct {
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	messageRepo  repository.MessageRepository
	imageStorage storage.ImageStorage
}

func NewProfileService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	messageRepo repository.MessageRepository,
	imageStorage storage.ImageStorage,
) ProfileService {
	return &profileService{
		userRepo:     userRepo,
		postRepo:     postRepo,
		messageRepo:  messageRepo,
		imageStorage: imageStorage,
	}
}

func (s *profileService) GetByUsername(ctx context.Context, username string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return toProfileResponse(user, false), nil
}

func (s *profileService) GetCurrent(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, notFoundOr(err)
	}
	return toProfileResponse(user, true), nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, notFoundOr(err)
	}

	profile := user.Profile
	if profile == nil {
		profile = &model.Profile{UserID: user.ID}
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}

	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	user.Profile = profile
	return toProfileResponse(user, true), nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, notFoundOr(err)
	}

	url, err := s.imageStorage.UploadImage(ctx, r, "avatars", fileName)
	if err != nil {
		return nil, err
	}

	profile := user.Profile
	if profile == nil {
		profile = &model.Profile{UserID: user.ID}
	}

	// Best effort removal of the previous avatar.
	if profile.AvatarURL != nil {
		_ = s.imageStorage.DeleteImage(ctx, *profile.AvatarURL)
	}

	profile.AvatarURL = &url
	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	user.Profile = profile
	return toProfileResponse(user, true), nil
}

func (s *profileService) Dashboard(ctx context.Context, userID uuid.UUID) (*dto.DashboardResponse, error) {
	total, published, views, err := s.postRepo.AuthorStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	unread, err := s.messageRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		TotalPosts:     total,
		PublishedPosts: published,
		TotalViews:     views,
		UnreadMessages: unread,
	}, nil
}

func toProfileResponse(user *model.User, includeEmail bool) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		Username: user.Username,
		JoinedAt: formatTime(user.CreatedAt),
	}
	if includeEmail {
		resp.Email = user.Email
	}
	if user.Profile != nil {
		resp.Bio = user.Profile.Bio
		resp.AvatarURL = user.Profile.AvatarURL
	}
	return resp
}

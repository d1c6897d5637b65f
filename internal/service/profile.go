package service

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/keito-ux/advent-calendar/internal/apperror"
	"github.com/keito-ux/advent-calendar/internal/model"
	"github.com/keito-ux/advent-calendar/internal/repository"
	"github.com/keito-ux/advent-calendar/internal/storage"
	"github.com/keito-ux/advent-calendar/internal/validation"
)

type ProfileService struct {
	repo    repository.ProfileRepository
	storage storage.Storage
}

func NewProfileService(repo repository.ProfileRepository, storage storage.Storage) *ProfileService {
	return &ProfileService{
		repo:    repo,
		storage: storage,
	}
}

func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	profile, err := s.repo.ByUserID(userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, apperror.NotFound("profile", userID)
	}
	if err != nil {
		return nil, apperror.Persistence("profile load", err)
	}
	return profile, nil
}

func (s *ProfileService) ByUsername(username string) (*model.Profile, error) {
	profile, err := s.repo.ByUsername(username)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, apperror.NotFound("profile", username)
	}
	if err != nil {
		return nil, apperror.Persistence("profile load", err)
	}
	return profile, nil
}

func (s *ProfileService) Update(userID, username string, bio *string) (*model.Profile, error) {
	err := validation.ValidateUsername(username)
	if err != nil {
		return nil, apperror.Validation("username", err.Error())
	}

	profile, err := s.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	profile.Username = strings.TrimSpace(username)
	profile.Bio = bio

	err = s.repo.Update(profile)
	if err != nil {
		return nil, apperror.Persistence("profile update", err)
	}

	return profile, nil
}

// UpdateAvatar uploads a new avatar image and stores its URL.
func (s *ProfileService) UpdateAvatar(userID string, header *multipart.FileHeader) (*model.Profile, error) {
	err := validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		return nil, apperror.Validation("avatar", err.Error())
	}

	profile, err := s.ByUserID(userID)
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, apperror.Validation("avatar", "failed to open file")
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := fmt.Sprintf("avatars/%s%s", userID, ext)

	err = s.storage.Save(path, file)
	if err != nil {
		return nil, apperror.Persistence("avatar upload", err)
	}

	url := s.storage.PublicURL(path)
	profile.AvatarURL = &url

	err = s.repo.Update(profile)
	if err != nil {
		return nil, apperror.Persistence("profile update", err)
	}

	return profile, nil
}

package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/eduplatform-api/internal/models"
	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

type userRepository interface {
	FindByEmails(ctx context.Context, emails []string) ([]models.User, error)
}

// UserService exposes user directory lookups.
type UserService struct {
	repo   userRepository
	logger *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, logger: logger}
}

// Search returns the users whose email appears in the comma separated list raw.
func (s *UserService) Search(ctx context.Context, raw string) ([]models.User, error) {
	emails := splitList(raw)
	if len(emails) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Harap memberikan daftar email yang valid.")
	}

	users, err := s.repo.FindByEmails(ctx, emails)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Terjadi kesalahan saat mencari user.")
	}
	if len(users) == 0 {
		return nil, appErrors.WithResult(appErrors.Clone(appErrors.ErrNotFound, "Tidak ada user ditemukan dengan email yang diberikan."), appErrors.ResultError)
	}
	return users, nil
}

// splitList splits a comma separated query value, trimming entries and dropping empties and repeats.
func splitList(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

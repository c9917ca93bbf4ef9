package user

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/glowedge/skincare-backend/pkg/errors"
	"github.com/glowedge/skincare-backend/pkg/util"
)

// Service exposes profile reads/updates and the login-streak counter.
type Service struct {
	users  Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs the user service.
func NewService(users Repository, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		logger: logger.With("component", "user.service"),
		now:    util.NowUTC,
	}
}

// ProfileRequest edits the skin profile; nil fields are untouched.
type ProfileRequest struct {
	SkinType     *string   `json:"skinType"`
	SkinConcerns *[]string `json:"skinConcerns"`
}

// StreakResult reports the state of the login streak after a login.
type StreakResult struct {
	CurrentStreak int  `json:"currentStreak"`
	LongestStreak int  `json:"longestStreak"`
	Extended      bool `json:"extended"`
}

// Get fetches one user.
func (s *Service) Get(ctx context.Context, userID int64) (User, error) {
	if userID == 0 {
		return User{}, apperrors.Wrap(apperrors.CodeUnauthorized, "missing user", nil)
	}
	u, found, err := s.users.Get(ctx, userID)
	if err != nil {
		return User{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to load user", err)
	}
	if !found {
		return User{}, apperrors.Wrap(apperrors.CodeNotFound, "user not found", nil)
	}
	return u, nil
}

// UpdateProfile edits the skin profile used for routine prompts.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req ProfileRequest) (User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if req.SkinType != nil {
		u.SkinType = strings.TrimSpace(*req.SkinType)
	}
	if req.SkinConcerns != nil {
		concerns := make([]string, 0, len(*req.SkinConcerns))
		for _, concern := range *req.SkinConcerns {
			if trimmed := strings.TrimSpace(concern); trimmed != "" {
				concerns = append(concerns, trimmed)
			}
		}
		u.SkinConcerns = concerns
	}
	u.UpdatedAt = s.now()
	if err := s.users.Update(ctx, u); err != nil {
		return User{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to update profile", err)
	}
	return u, nil
}

// RecordLogin advances the login streak: a repeat login on the same UTC day
// is a no-op, a login on the next day extends the streak, and any gap resets
// it to one.
func (s *Service) RecordLogin(ctx context.Context, userID int64) (StreakResult, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return StreakResult{}, err
	}

	now := s.now()
	extended := false
	switch {
	case u.LastLoginAt == nil:
		u.CurrentStreak = 1
		extended = true
	default:
		switch util.DaysBetween(*u.LastLoginAt, now) {
		case 0:
			// already counted today
		case 1:
			u.CurrentStreak++
			extended = true
		default:
			u.CurrentStreak = 1
			extended = true
		}
	}
	if u.CurrentStreak > u.LongestStreak {
		u.LongestStreak = u.CurrentStreak
	}
	u.LastLoginAt = &now
	u.UpdatedAt = now

	if err := s.users.Update(ctx, u); err != nil {
		return StreakResult{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to record login", err)
	}
	return StreakResult{
		CurrentStreak: u.CurrentStreak,
		LongestStreak: u.LongestStreak,
		Extended:      extended,
	}, nil
}

// Profile returns the prompt inputs for the routine engine.
func (s *Service) Profile(ctx context.Context, userID int64) (string, []string, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	return u.SkinType, u.SkinConcerns, nil
}

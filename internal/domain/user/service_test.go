package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/glowedge/skincare-backend/pkg/errors"
)

var errBoom = errors.New("boom")

type fakeUsers struct {
	data      map[int64]User
	updateErr error
}

func newFakeUsers(seed ...User) *fakeUsers {
	f := &fakeUsers{data: make(map[int64]User)}
	for _, u := range seed {
		f.data[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u User) error {
	f.data[u.ID] = u
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.data[u.ID] = u
	return nil
}

func (f *fakeUsers) Get(_ context.Context, id int64) (User, bool, error) {
	u, ok := f.data[id]
	return u, ok, nil
}

var _ Repository = (*fakeUsers)(nil)

func newTestService(users Repository, now time.Time) *Service {
	svc := NewService(users, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return now }
	return svc
}

func TestRecordLoginFirstEver(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	users := newFakeUsers(User{ID: 1})
	svc := newTestService(users, now)

	result, err := svc.RecordLogin(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, result.CurrentStreak)
	require.Equal(t, 1, result.LongestStreak)
	require.True(t, result.Extended)

	stored := users.data[1]
	require.NotNil(t, stored.LastLoginAt)
	require.Equal(t, now, *stored.LastLoginAt)
}

func TestRecordLoginSameDayIsIdempotent(t *testing.T) {
	last := time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC)
	users := newFakeUsers(User{ID: 1, CurrentStreak: 4, LongestStreak: 6, LastLoginAt: &last})
	svc := newTestService(users, time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC))

	result, err := svc.RecordLogin(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 4, result.CurrentStreak)
	require.Equal(t, 6, result.LongestStreak)
	require.False(t, result.Extended)
}

func TestRecordLoginNextDayExtends(t *testing.T) {
	last := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)
	users := newFakeUsers(User{ID: 1, CurrentStreak: 4, LongestStreak: 4, LastLoginAt: &last})
	svc := newTestService(users, time.Date(2025, 6, 11, 0, 30, 0, 0, time.UTC))

	result, err := svc.RecordLogin(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 5, result.CurrentStreak)
	require.Equal(t, 5, result.LongestStreak)
	require.True(t, result.Extended)
}

func TestRecordLoginGapResets(t *testing.T) {
	last := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	users := newFakeUsers(User{ID: 1, CurrentStreak: 9, LongestStreak: 9, LastLoginAt: &last})
	svc := newTestService(users, time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))

	result, err := svc.RecordLogin(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, result.CurrentStreak)
	require.Equal(t, 9, result.LongestStreak)
	require.True(t, result.Extended)
}

func TestRecordLoginUnknownUser(t *testing.T) {
	svc := newTestService(newFakeUsers(), time.Now())

	_, err := svc.RecordLogin(context.Background(), 42)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
}

func TestUpdateProfile(t *testing.T) {
	users := newFakeUsers(User{ID: 1, SkinType: "oily", SkinConcerns: []string{"acne"}})
	svc := newTestService(users, time.Now())

	skinType := " combination "
	concerns := []string{" redness ", "", "dryness"}
	updated, err := svc.UpdateProfile(context.Background(), 1, ProfileRequest{
		SkinType:     &skinType,
		SkinConcerns: &concerns,
	})
	require.NoError(t, err)
	require.Equal(t, "combination", updated.SkinType)
	require.Equal(t, []string{"redness", "dryness"}, updated.SkinConcerns)
}

func TestUpdateProfilePartial(t *testing.T) {
	users := newFakeUsers(User{ID: 1, SkinType: "oily", SkinConcerns: []string{"acne"}})
	svc := newTestService(users, time.Now())

	skinType := "dry"
	updated, err := svc.UpdateProfile(context.Background(), 1, ProfileRequest{SkinType: &skinType})
	require.NoError(t, err)
	require.Equal(t, "dry", updated.SkinType)
	require.Equal(t, []string{"acne"}, updated.SkinConcerns)
}

func TestUpdateProfileStorageFailure(t *testing.T) {
	users := newFakeUsers(User{ID: 1})
	users.updateErr = errBoom
	svc := newTestService(users, time.Now())

	skinType := "dry"
	_, err := svc.UpdateProfile(context.Background(), 1, ProfileRequest{SkinType: &skinType})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorageError))
}

func TestProfileFeedsPromptInputs(t *testing.T) {
	users := newFakeUsers(User{ID: 1, SkinType: "dry", SkinConcerns: []string{"redness"}})
	svc := newTestService(users, time.Now())

	skinType, concerns, err := svc.Profile(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "dry", skinType)
	require.Equal(t, []string{"redness"}, concerns)
}

func TestGetRequiresUser(t *testing.T) {
	svc := newTestService(newFakeUsers(), time.Now())

	_, err := svc.Get(context.Background(), 0)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-api-starter/internal/model"
	"go-api-starter/pkg/apierror"
)

type fakeUserStore struct {
	users map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (f *fakeUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Create(_ context.Context, u model.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, u model.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return model.ErrUserNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) Deactivate(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.IsActive = false
	f.users[id] = u
	return nil
}

func (f *fakeUserStore) List(_ context.Context, offset int, limit int) ([]model.Profile, error) {
	out := make([]model.Profile, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u.Profile())
	}
	if offset >= len(out) {
		return []model.Profile{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (f *fakeUserStore) Count(_ context.Context) (int, error) {
	return len(f.users), nil
}

type fakeTokenStore struct {
	tokens map[string]string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]string{}}
}

func (f *fakeTokenStore) Store(_ context.Context, token string, userID string, _ time.Time) error {
	f.tokens[token] = userID
	return nil
}

func (f *fakeTokenStore) Validate(_ context.Context, token string) (string, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return "", model.ErrTokenNotFound
	}
	return userID, nil
}

func (f *fakeTokenStore) Revoke(_ context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(_ context.Context, userID string) error {
	for token, owner := range f.tokens {
		if owner == userID {
			delete(f.tokens, token)
		}
	}
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserStore, *fakeTokenStore) {
	t.Helper()

	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	svc, err := NewAuthService("test-secret", 15*time.Minute, 24*time.Hour, users, tokens)
	require.NoError(t, err)
	return svc, users, tokens
}

func registerTestUser(t *testing.T, svc *AuthService, email string) model.Profile {
	t.Helper()

	profile, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    email,
		Password: "Password123!",
		FullName: "Test User",
	})
	require.NoError(t, err)
	return profile
}

func TestLoginIssuesDecodableToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	profile := registerTestUser(t, svc, "alice@example.com")

	pair, err := svc.Login(context.Background(), "alice@example.com", "Password123!")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	// The token round-trips to the same subject.
	claims, err := svc.DecodeAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, claims.UserID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerTestUser(t, svc, "alice@example.com")

	_, wrongPassword := svc.Login(context.Background(), "alice@example.com", "wrong")
	_, unknownEmail := svc.Login(context.Background(), "nobody@example.com", "Password123!")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)

	var apiErr1, apiErr2 *apierror.APIError
	require.True(t, errors.As(wrongPassword, &apiErr1))
	require.True(t, errors.As(unknownEmail, &apiErr2))
	assert.Equal(t, *apiErr1, *apiErr2)
}

func TestLoginDisabledUserGetsGenericError(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	profile := registerTestUser(t, svc, "alice@example.com")
	require.NoError(t, users.Deactivate(context.Background(), profile.ID))

	_, disabled := svc.Login(context.Background(), "alice@example.com", "Password123!")
	_, unknown := svc.Login(context.Background(), "nobody@example.com", "Password123!")

	var apiErr1, apiErr2 *apierror.APIError
	require.True(t, errors.As(disabled, &apiErr1))
	require.True(t, errors.As(unknown, &apiErr2))
	assert.Equal(t, *apiErr1, *apiErr2)
}

func TestCurrentUserRejectsDisabledUser(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	profile := registerTestUser(t, svc, "alice@example.com")

	pair, err := svc.Login(context.Background(), "alice@example.com", "Password123!")
	require.NoError(t, err)

	claims, err := svc.DecodeAccessToken(pair.AccessToken)
	require.NoError(t, err)

	// Resolves fine while active.
	_, err = svc.CurrentUser(context.Background(), claims.UserID)
	require.NoError(t, err)

	// The still-valid token stops working once the user is disabled.
	require.NoError(t, users.Deactivate(context.Background(), profile.ID))
	_, err = svc.CurrentUser(context.Background(), claims.UserID)
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.HTTPStatus)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerTestUser(t, svc, "alice@example.com")

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:    "ALICE@example.com",
		Password: "AnotherPassword1",
	})
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "ALREADY_EXISTS", apiErr.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerTestUser(t, svc, "alice@example.com")

	pair, err := svc.Login(context.Background(), "alice@example.com", "Password123!")
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The spent token cannot be replayed.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerTestUser(t, svc, "alice@example.com")

	pair, err := svc.Login(context.Background(), "alice@example.com", "Password123!")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
}

func TestUpdateUserPermissions(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	alice := registerTestUser(t, svc, "alice@example.com")
	bob := registerTestUser(t, svc, "bob@example.com")

	newName := "Alice Example"
	_, err := svc.UpdateUser(context.Background(), bob, alice.ID, model.UpdateUserRequest{FullName: &newName})
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "FORBIDDEN", apiErr.Code)

	updated, err := svc.UpdateUser(context.Background(), alice, alice.ID, model.UpdateUserRequest{FullName: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Alice Example", updated.FullName)
}

func TestUpdateUserPasswordChange(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	alice := registerTestUser(t, svc, "alice@example.com")

	newPassword := "NewPassword456!"
	_, err := svc.UpdateUser(context.Background(), alice, alice.ID, model.UpdateUserRequest{Password: &newPassword})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "Password123!")
	require.Error(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "NewPassword456!")
	require.NoError(t, err)
}

func TestDeactivateUserRevokesAllTokens(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)
	alice := registerTestUser(t, svc, "alice@example.com")

	pair, err := svc.Login(context.Background(), "alice@example.com", "Password123!")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.tokens)

	require.NoError(t, svc.DeactivateUser(context.Background(), alice.ID))
	assert.Empty(t, tokens.tokens)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.Error(t, err)
}

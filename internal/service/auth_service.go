package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-api-starter/internal/auth"
	"go-api-starter/internal/model"
	"go-api-starter/pkg/apierror"
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	Update(ctx context.Context, u model.User) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, offset int, limit int) ([]model.Profile, error)
	Count(ctx context.Context) (int, error)
}

type RefreshTokenStore interface {
	Store(ctx context.Context, token string, userID string, expiresAt time.Time) error
	Validate(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type AuthService struct {
	issuer     *auth.TokenIssuer
	accessTTL  time.Duration
	refreshTTL time.Duration
	users      UserStore
	tokens     RefreshTokenStore
}

func NewAuthService(secretKey string, accessTTL time.Duration, refreshTTL time.Duration, users UserStore, tokens RefreshTokenStore) (*AuthService, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, errors.New("secret key is required")
	}

	return &AuthService{
		issuer:     auth.NewTokenIssuer(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		users:      users,
		tokens:     tokens,
	}, nil
}

// errInvalidCredentials is shared by every login failure path so unknown
// emails, wrong passwords and disabled accounts are indistinguishable to
// the caller.
func errInvalidCredentials() error {
	return apierror.New("UNAUTHORIZED", "Invalid credentials", "", http.StatusUnauthorized)
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.TokenPair{}, errInvalidCredentials()
		}
		return model.TokenPair{}, err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return model.TokenPair{}, errInvalidCredentials()
	}

	if !user.IsActive {
		return model.TokenPair{}, errInvalidCredentials()
	}

	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	role := strings.ToLower(strings.TrimSpace(req.Role))

	if email == "" || password == "" {
		return model.Profile{}, apierror.New("BAD_REQUEST", "email and password are required", "", http.StatusBadRequest)
	}
	if !strings.Contains(email, "@") {
		return model.Profile{}, apierror.New("BAD_REQUEST", "invalid email address", email, http.StatusBadRequest)
	}
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleAdmin && role != model.RoleUser {
		return model.Profile{}, apierror.New("BAD_REQUEST", "invalid role", role, http.StatusBadRequest)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.Profile{}, err
	}
	if exists {
		return model.Profile{}, apierror.New("ALREADY_EXISTS", "email already registered", email, http.StatusConflict)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return model.Profile{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.Profile{}, err
	}

	return user.Profile(), nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.issuer.DecodeToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return model.TokenPair{}, mapTokenError(err)
	}

	ownerID, err := s.tokens.Validate(ctx, refreshToken)
	if err != nil || ownerID != claims.UserID {
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "refresh token is invalid", "", http.StatusUnauthorized)
	}

	// Rotation: the presented token is spent regardless of what follows.
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return model.TokenPair{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "user not found or disabled", "", http.StatusUnauthorized)
	}

	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, strings.TrimSpace(refreshToken))
}

// DecodeAccessToken verifies a bearer token. Used by the auth middleware.
func (s *AuthService) DecodeAccessToken(tokenString string) (*model.AuthClaims, error) {
	return s.issuer.DecodeToken(tokenString, auth.TokenTypeAccess)
}

// CurrentUser resolves the token subject against storage on every
// request. Missing and disabled users are both rejected here, so a token
// issued before a user was disabled stops working immediately.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (model.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.Profile{}, apierror.New("UNAUTHORIZED", "user not found or disabled", "", http.StatusUnauthorized)
	}
	if !user.IsActive {
		return model.Profile{}, apierror.New("UNAUTHORIZED", "user not found or disabled", "", http.StatusUnauthorized)
	}
	return user.Profile(), nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (model.Profile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.Profile{}, err
	}
	return user.Profile(), nil
}

func (s *AuthService) ListUsers(ctx context.Context, page int, limit int) ([]model.Profile, int, error) {
	offset, limit := pageToOffset(page, limit)

	users, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUser applies a partial update. Non-admin actors may only update
// themselves.
func (s *AuthService) UpdateUser(ctx context.Context, actor model.Profile, id string, req model.UpdateUserRequest) (model.Profile, error) {
	if actor.ID != id && actor.Role != model.RoleAdmin {
		return model.Profile{}, apierror.New("FORBIDDEN", "cannot update another user", "", http.StatusForbidden)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.Profile{}, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" || !strings.Contains(email, "@") {
			return model.Profile{}, apierror.New("BAD_REQUEST", "invalid email address", email, http.StatusBadRequest)
		}
		if email != user.Email {
			exists, err := s.users.ExistsByEmail(ctx, email)
			if err != nil {
				return model.Profile{}, err
			}
			if exists {
				return model.Profile{}, apierror.New("ALREADY_EXISTS", "email already registered", email, http.StatusConflict)
			}
			user.Email = email
		}
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}

	if req.Password != nil {
		password := strings.TrimSpace(*req.Password)
		if password == "" {
			return model.Profile{}, apierror.New("BAD_REQUEST", "password cannot be empty", "", http.StatusBadRequest)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return model.Profile{}, err
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return model.Profile{}, err
	}
	return user.Profile(), nil
}

// DeactivateUser soft-disables the account and revokes its refresh
// tokens. There is no physical delete.
func (s *AuthService) DeactivateUser(ctx context.Context, id string) error {
	if err := s.users.Deactivate(ctx, id); err != nil {
		return err
	}
	return s.tokens.RevokeAllForUser(ctx, id)
}

func (s *AuthService) issueTokenPair(ctx context.Context, user model.User) (model.TokenPair, error) {
	accessToken, err := s.issuer.CreateToken(user.ID, user.Role, auth.TokenTypeAccess, s.accessTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := s.issuer.CreateToken(user.ID, user.Role, auth.TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	expiresAt := time.Now().UTC().Add(s.refreshTTL)
	if err := s.tokens.Store(ctx, refreshToken, user.ID, expiresAt); err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User:         user.Profile(),
	}, nil
}

func mapTokenError(err error) error {
	if errors.Is(err, auth.ErrTokenExpired) {
		return apierror.New("TOKEN_EXPIRED", "token expired", "", http.StatusUnauthorized)
	}
	return apierror.New("UNAUTHORIZED", "invalid token", "", http.StatusUnauthorized)
}

func pageToOffset(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 100
	}
	return (page - 1) * limit, limit
}

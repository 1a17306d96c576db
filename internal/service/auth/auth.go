package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"worklytics/internal/apperrors"
	"worklytics/internal/models"
	"worklytics/internal/repository"
	"worklytics/internal/service/auth/tokenmanager"
)

const (
	defaultAccessHeaderName  = "Authorization"
	defaultAccessAuthScheme  = "Bearer"
	defaultRefreshCookieName = "refreshtoken"
)

type Config struct {
	// Header and scheme the access token is carried in
	AccessHeaderName string
	AccessAuthScheme string

	// Cookie name for the refresh token
	RefreshCookieName string

	// Hasher used during registration and login
	Hasher PasswordHasher
}

// Auth service
// Registers and logs in users, issues and refreshes token pairs and moves
// them to and from HTTP requests and responses
type AuthService struct {
	accessHeaderName  string
	accessAuthScheme  string
	refreshCookieName string

	// hasher to hash or compare user passwords
	hasher PasswordHasher

	// Manager to issue token pairs (access and refresh)
	token *tokenmanager.TokenManager

	// Repository to access long term data
	userRepo repository.UserRepo
}

func NewService(cfg Config, token *tokenmanager.TokenManager, userRepo repository.UserRepo) (*AuthService, error) {
	setDefaultString := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	setDefaultString(&cfg.AccessHeaderName, defaultAccessHeaderName)
	setDefaultString(&cfg.AccessAuthScheme, defaultAccessAuthScheme)
	setDefaultString(&cfg.RefreshCookieName, defaultRefreshCookieName)

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	return &AuthService{
		accessHeaderName:  cfg.AccessHeaderName,
		accessAuthScheme:  cfg.AccessAuthScheme,
		refreshCookieName: cfg.RefreshCookieName,
		hasher:            hasher,
		token:             token,
		userRepo:          userRepo,
	}, nil
}

// Register user with role 'user'
// Returns apperrors.ErrUserAlreadyExists if the username is taken
func (s *AuthService) Register(ctx context.Context, username string, password string) (models.TokenPair, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, username, hash, models.RoleUser)
	if err != nil {
		return models.TokenPair{}, err
	}

	return s.token.GeneratePair(ctx, user)
}

// Login with username and password
// Returns apperrors.ErrInvalidCredentials on unknown user or wrong password
func (s *AuthService) Login(ctx context.Context, username string, password string) (models.TokenPair, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return models.TokenPair{}, apperrors.ErrInvalidCredentials
		}
		return models.TokenPair{}, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.TokenPair{}, apperrors.ErrInvalidCredentials
	}

	return s.token.GeneratePair(ctx, user)
}

// Refresh the pair with a one-shot refresh token
func (s *AuthService) RefreshPair(ctx context.Context, refresh string) (models.TokenPair, error) {
	token, err := s.token.UseRefresh(ctx, refresh)
	if err != nil {
		return models.TokenPair{}, err
	}

	user, err := s.userRepo.GetUserByID(ctx, token.UserID)
	if err != nil {
		return models.TokenPair{}, err
	}

	return s.token.GeneratePair(ctx, user)
}

// Set auth tokens (access, refresh) to response
// Access goes to the auth header, refresh to a HttpOnly cookie
func (s *AuthService) SetTokenPairToResponse(w http.ResponseWriter, pair models.TokenPair) {
	w.Header().Set(s.accessHeaderName, s.accessAuthScheme+" "+pair.Access.Value)

	http.SetCookie(w, &http.Cookie{
		Name:     s.refreshCookieName,
		Value:    pair.Refresh.Value,
		Path:     "/",
		MaxAge:   int(time.Until(pair.Refresh.ExpiresAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// Get refresh token from request cookie
func (s *AuthService) GetRefreshString(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.refreshCookieName)
	if err != nil {
		return "", fmt.Errorf("refresh cookie error: %w", apperrors.ErrRefreshTokenNotFound)
	}

	return cookie.Value, nil
}

// Get request and return user if it authenticated or error
func (s *AuthService) GetUserFromRequest(ctx context.Context, r *http.Request) (models.User, error) {
	header := r.Header.Get(s.accessHeaderName)

	access, found := strings.CutPrefix(header, s.accessAuthScheme+" ")
	if !found || access == "" {
		return models.User{}, fmt.Errorf("no access token in %q header", s.accessHeaderName)
	}

	userID, err := s.token.ParseAccess(ctx, access)
	if err != nil {
		return models.User{}, err
	}

	return s.userRepo.GetUserByID(ctx, userID)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/transport"
	pkg_hash "github.com/Skotchmaster/restaurant/pkg/hash"
	jwthelp "github.com/Skotchmaster/restaurant/pkg/jwt"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

func (s *AuthService) issue(login, role string) (*tokens.Pair, string, error) {
	now := time.Now()
	accessExp := now.Add(tokens.AccessTTL)
	access, err := tokens.SignAccessToken(login, role, accessExp, s.JWTSecret)
	if err != nil {
		return nil, "", err
	}

	jti := jwthelp.NewJTI()
	refreshExp := now.Add(tokens.RefreshTTL)
	refresh, err := tokens.SignRefreshToken(login, jti, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, "", err
	}

	return &tokens.Pair{
		Login:        login,
		Role:         role,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, jti, nil
}

// normalizeLogin is applied wherever a login enters from a client, so a
// login is stored and looked up in the same form.
func normalizeLogin(login string) string {
	return strings.TrimSpace(login)
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	login := normalizeLogin(req.Login)
	l := logging.FromContext(ctx).With("svc", "auth.register", "login", login)
	if login == "" {
		return nil, fmt.Errorf("login is required: %w", ErrValidation)
	}

	last, first, middle := SplitFullName(req.FullName)
	if last == "" || first == "" {
		return nil, fmt.Errorf("full_name needs last and first name: %w", ErrValidation)
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Login:          login,
		PasswordHash:   pwHash,
		Passport:       req.Passport,
		LastName:       last,
		FirstName:      first,
		MiddleName:     middle,
		BankCardNumber: req.CardNumber,
		Role:           "user",
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("login %q: %w", login, ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, login, password string) (*tokens.Pair, error) {
	user, err := s.Repo.GetUser(ctx, normalizeLogin(login))
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	pair, jti, err := s.issue(user.Login, user.Role)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SaveRefreshToken(ctx, user.Login, jti, pair.RefreshToken, pair.RefreshExp); err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh rotates a refresh token. The presented token is revoked and cannot
// be used again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidRefreshToken)
	}

	user, err := s.Repo.GetUser(ctx, claims.Subject)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("unknown login: %w", ErrInvalidRefreshToken)
		}
		return nil, err
	}

	pair, jti, err := s.issue(user.Login, user.Role)
	if err != nil {
		return nil, err
	}
	next := models.RefreshToken{
		JTI:       jti,
		TokenHash: jwthelp.Sha256Hex(pair.RefreshToken),
		UserLogin: user.Login,
		ExpiresAt: pair.RefreshExp,
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, refreshToken, next); err != nil {
		if errors.Is(err, repo.ErrRefreshRevoked) || repo.IsNotFound(err) {
			return nil, fmt.Errorf("%v: %w", err, ErrInvalidRefreshToken)
		}
		return nil, err
	}
	return pair, nil
}

// Logout revokes the refresh token if one is presented.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

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
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/mykafka"
)

type ProfileService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

type UserEvent struct {
	Type      string    `json:"type"`
	Login     string    `json:"login"`
	OldLogin  string    `json:"old_login,omitempty"`
	Timestamp time.Time `json:"ts"`
}

// SplitFullName maps whitespace-separated tokens to last, first and middle
// name. Tokens past the third are dropped.
func SplitFullName(full string) (last, first string, middle *string) {
	parts := strings.Fields(full)
	if len(parts) > 0 {
		last = parts[0]
	}
	if len(parts) > 1 {
		first = parts[1]
	}
	if len(parts) > 2 {
		m := parts[2]
		middle = &m
	}
	return last, first, middle
}

func JoinFullName(u *models.User) string {
	parts := []string{u.LastName, u.FirstName}
	if u.MiddleName != nil && *u.MiddleName != "" {
		parts = append(parts, *u.MiddleName)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func (s *ProfileService) LoadForEdit(ctx context.Context, login string) (*transport.ProfileView, error) {
	u, err := s.Repo.GetUser(ctx, login)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("user %q: %w", login, ErrNotFound)
		}
		return nil, err
	}
	return &transport.ProfileView{
		FullName:   JoinFullName(u),
		Passport:   u.Passport,
		CardNumber: u.BankCardNumber,
		Login:      u.Login,
	}, nil
}

// Apply merges req into the stored profile and reports whether the login
// changed. A rename moves the user's cart lines in the same transaction.
func (s *ProfileService) Apply(ctx context.Context, login string, req *transport.ProfileUpdateRequest) (bool, error) {
	l := logging.FromContext(ctx).With("svc", "profile.apply", "login", login)
	if req.Empty() {
		return false, fmt.Errorf("no data provided: %w", ErrValidation)
	}

	u, err := s.Repo.GetUser(ctx, login)
	if err != nil {
		if repo.IsNotFound(err) {
			return false, fmt.Errorf("user %q: %w", login, ErrNotFound)
		}
		return false, err
	}

	if present(req.FullName) {
		u.LastName, u.FirstName, u.MiddleName = SplitFullName(*req.FullName)
	}
	if present(req.Passport) {
		u.Passport = strings.TrimSpace(*req.Passport)
	}
	if present(req.CardNumber) {
		u.BankCardNumber = strings.TrimSpace(*req.CardNumber)
	}
	if present(req.Password) {
		hash, err := pkg_hash.HashPassword(*req.Password)
		if err != nil {
			return false, err
		}
		u.PasswordHash = hash
	}
	if present(req.Login) {
		u.Login = normalizeLogin(*req.Login)
	}

	loginChanged := u.Login != login
	if err := s.Repo.UpdateProfile(ctx, login, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrLoginTaken):
			return false, fmt.Errorf("login %q: %w", u.Login, ErrConflict)
		case repo.IsNotFound(err):
			return false, fmt.Errorf("user %q: %w", login, ErrNotFound)
		}
		return false, err
	}

	if loginChanged {
		l.Info("login_renamed", "new_login", u.Login)
		s.publish(ctx, UserEvent{Type: "login_renamed", Login: u.Login, OldLogin: login})
	} else {
		s.publish(ctx, UserEvent{Type: "profile_updated", Login: u.Login})
	}
	return loginChanged, nil
}

func (s *ProfileService) publish(ctx context.Context, ev UserEvent) {
	if s.Events == nil {
		return
	}
	ev.Timestamp = time.Now().UTC()
	if err := s.Events.PublishEvent(ctx, mykafka.TopicUserEvents, ev.Login, ev); err != nil {
		logging.FromContext(ctx).Warn("user_event_publish_failed", "type", ev.Type, "error", err)
	}
}

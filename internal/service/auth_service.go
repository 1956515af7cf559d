package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go-storefront/internal/event"
	"go-storefront/internal/hash"
	"go-storefront/internal/model"
	"go-storefront/pkg/apierror"
)

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u model.User) (model.User, error)
}

type TokenIssuer interface {
	Issue(user model.User) (string, error)
}

type AuthService struct {
	users       UserStore
	hasher      *hash.Hasher
	tokens      TokenIssuer
	defaultRole string
	bus         event.Bus
	dummyHash   string
}

// NewAuthService wires the credential store. bus may be nil.
func NewAuthService(users UserStore, hasher *hash.Hasher, tokens TokenIssuer, defaultRole string, bus event.Bus) (*AuthService, error) {
	if !model.ValidRole(defaultRole) {
		return nil, fmt.Errorf("invalid default role %q", defaultRole)
	}

	// Compared against for unknown usernames so both failure paths pay one
	// bcrypt comparison at the same cost.
	dummy, err := hasher.Hash("storefront-dummy-password")
	if err != nil {
		return nil, err
	}

	return &AuthService{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		defaultRole: defaultRole,
		bus:         bus,
		dummyHash:   dummy,
	}, nil
}

func (s *AuthService) DefaultRole() string {
	return s.defaultRole
}

// Register stores a new account under the configured default role. The
// username is trimmed; the password is taken verbatim.
func (s *AuthService) Register(ctx context.Context, username string, password string) (model.RegisterResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.RegisterResult{}, apierror.Validation("username and password are required", "")
	}
	if len(password) > hash.MaxPasswordBytes {
		return model.RegisterResult{}, apierror.Validation("password is too long", fmt.Sprintf("at most %d bytes", hash.MaxPasswordBytes))
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return model.RegisterResult{}, err
	}
	if exists {
		return model.RegisterResult{}, apierror.DuplicateUser(username)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return model.RegisterResult{}, err
	}

	user, err := s.users.Create(ctx, model.User{
		Username:     username,
		PasswordHash: digest,
		Role:         s.defaultRole,
	})
	if errors.Is(err, model.ErrDuplicateUsername) {
		return model.RegisterResult{}, apierror.DuplicateUser(username)
	}
	if err != nil {
		return model.RegisterResult{}, err
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username, "role", user.Role)
	s.publish(event.New(event.TypeUserRegistered, strconv.FormatInt(user.ID, 10), toAuthUser(user)))

	return model.RegisterResult{ID: user.ID}, nil
}

// VerifyCredentials returns the same InvalidCredentials error for an unknown
// username and for a wrong password.
func (s *AuthService) VerifyCredentials(ctx context.Context, username string, password string) (model.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if apierror.HasCode(err, apierror.CodeNotFound) {
		s.hasher.Compare(s.dummyHash, password)
		return model.User{}, apierror.InvalidCredentials()
	}
	if err != nil {
		return model.User{}, err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return model.User{}, apierror.InvalidCredentials()
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username string, password string) (model.LoginResult, error) {
	user, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		return model.LoginResult{}, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return model.LoginResult{}, err
	}

	return model.LoginResult{Token: token, User: toAuthUser(user)}, nil
}

func (s *AuthService) publish(e event.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

func toAuthUser(u model.User) model.AuthUser {
	return model.AuthUser{ID: u.ID, Username: u.Username, Role: u.Role}
}

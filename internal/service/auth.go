package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/notekeep/notekeep-go/internal/crypto"
	"github.com/notekeep/notekeep-go/internal/model"
	"github.com/notekeep/notekeep-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidEmail       = errors.New("a valid email address is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthenticated    = errors.New("could not validate credentials")
)

// AuthService handles signup, login and bearer token resolution.
type AuthService struct {
	users  UserStore
	hasher *crypto.Hasher
	tokens *crypto.TokenService
	now    func() time.Time

	// dummyHash is verified against when an email is unknown, so that path
	// costs the same as a wrong password.
	dummyHash string
}

// NewAuthService creates a new AuthService. It fails if hasher cannot produce
// a digest.
func NewAuthService(users UserStore, hasher *crypto.Hasher, tokens *crypto.TokenService) (*AuthService, error) {
	dummyHash, err := hasher.Hash("notekeep-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("hashing dummy password: %w", err)
	}

	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		now:       time.Now,
		dummyHash: dummyHash,
	}, nil
}

// CanonicalEmail returns the form emails are stored and compared in.
func CanonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a new account. Emails differing only in case collide.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.UserResponse, error) {
	email := CanonicalEmail(req.Email)
	if !validEmail(email) {
		return model.UserResponse{}, ErrInvalidEmail
	}
	if req.Password == "" {
		return model.UserResponse{}, ErrPasswordRequired
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user, err := s.users.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.UserResponse{}, ErrEmailTaken
		}
		return model.UserResponse{}, fmt.Errorf("creating user: %w", err)
	}

	return model.NewUserResponse(user), nil
}

// Authenticate returns the user whose email and password match, or nil when
// either does not. An unknown email and a wrong password are
// indistinguishable to the caller; only store failures produce an error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, CanonicalEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, nil
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil
	}
	return user, nil
}

// Login authenticates a user and returns an access token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	user, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return model.TokenResponse{}, err
	}
	if user == nil {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, s.now())
	if err != nil {
		return model.TokenResponse{}, fmt.Errorf("issuing token: %w", err)
	}

	return model.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// Resolve turns a bearer token into the user it was issued for. A rejected
// token and a user deleted after issuance both yield ErrUnauthenticated.
func (s *AuthService) Resolve(ctx context.Context, token string) (*model.User, error) {
	userID, err := s.tokens.Validate(token, s.now())
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	return user, nil
}

// DeleteAccount removes the user and all of their notes.
func (s *AuthService) DeleteAccount(ctx context.Context, user *model.User) error {
	err := s.users.Delete(ctx, user.ID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// validEmail accepts a bare address whose domain has at least two labels.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	_, domain, _ := strings.Cut(email, "@")
	if strings.HasPrefix(domain, "[") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if label == "" {
			return false
		}
	}
	return strings.Contains(domain, ".")
}

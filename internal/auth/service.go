// Package auth owns accounts and session tokens. The preference subsystem
// only ever sees the authenticated user id extracted from a verified token.
package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/clemente-pps/flixfinder/internal/apperr"
	"github.com/clemente-pps/flixfinder/internal/domain"
	"github.com/clemente-pps/flixfinder/internal/repository"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service registers users and authenticates credentials.
type Service struct {
	users  *repository.UsersRepository
	tokens *TokenManager
}

// NewService wires the auth service.
func NewService(users *repository.UsersRepository, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens}
}

// RegisterParams carries a registration request.
type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     *string
}

// Session is the outcome of a successful register or login.
type Session struct {
	Token string
	User  domain.User
}

// Register validates input, hashes the credential, and creates the account.
// A duplicate email surfaces as Conflict.
func (s *Service) Register(ctx context.Context, params RegisterParams) (Session, error) {
	firstName := strings.TrimSpace(params.FirstName)
	lastName := strings.TrimSpace(params.LastName)
	email := strings.ToLower(strings.TrimSpace(params.Email))

	if firstName == "" {
		return Session{}, apperr.ValidationField("firstName", "first name is required")
	}
	if lastName == "" {
		return Session{}, apperr.ValidationField("lastName", "last name is required")
	}
	if !emailPattern.MatchString(email) {
		return Session{}, apperr.ValidationField("email", "invalid email address")
	}
	if len(params.Password) < minPasswordLength {
		return Session{}, apperr.ValidationField("password", "password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.Persistence, err, "hash password")
	}

	user, err := s.users.Create(ctx, repository.UserCreateParams{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		Phone:        params.Phone,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Session{}, apperr.New(apperr.Conflict, "email already registered")
		}
		return Session{}, apperr.Wrap(apperr.Persistence, err, "create user")
	}

	return s.newSession(user)
}

// Login authenticates a credential pair. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return Session{}, apperr.ValidationField("email", "email is required")
	}
	if password == "" {
		return Session{}, apperr.ValidationField("password", "password is required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, apperr.New(apperr.Validation, "invalid credentials")
		}
		return Session{}, apperr.Wrap(apperr.Persistence, err, "fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, apperr.New(apperr.Validation, "invalid credentials")
	}

	return s.newSession(user)
}

// ProfileParams carries a partial profile update. Nil fields are untouched;
// provided names must be non-blank.
type ProfileParams struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// UpdateProfile applies the provided fields to the user's profile. At least
// one field must be present.
func (s *Service) UpdateProfile(ctx context.Context, userID string, params ProfileParams) (domain.User, error) {
	if params.FirstName == nil && params.LastName == nil && params.Phone == nil {
		return domain.User{}, apperr.New(apperr.Validation, "no profile fields provided")
	}
	if params.FirstName != nil {
		trimmed := strings.TrimSpace(*params.FirstName)
		if trimmed == "" {
			return domain.User{}, apperr.ValidationField("firstName", "first name cannot be blank")
		}
		params.FirstName = &trimmed
	}
	if params.LastName != nil {
		trimmed := strings.TrimSpace(*params.LastName)
		if trimmed == "" {
			return domain.User{}, apperr.ValidationField("lastName", "last name cannot be blank")
		}
		params.LastName = &trimmed
	}

	user, err := s.users.UpdateProfile(ctx, userID, repository.UserProfileParams{
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Phone:     params.Phone,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, apperr.New(apperr.NotFound, "user not found")
		}
		return domain.User{}, apperr.Wrap(apperr.Persistence, err, "update profile")
	}
	return user, nil
}

// ChangePassword verifies the current credential and replaces it. A wrong
// current password reads the same as any other validation failure.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return apperr.ValidationField("currentPassword", "current password is required")
	}
	if len(newPassword) < minPasswordLength {
		return apperr.ValidationField("newPassword", "password must be at least %d characters", minPasswordLength)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "user not found")
		}
		return apperr.Wrap(apperr.Persistence, err, "fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperr.ValidationField("currentPassword", "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.Persistence, err, "hash password")
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return apperr.Wrap(apperr.Persistence, err, "update password")
	}
	return nil
}

// UserByID fetches the account behind a verified session.
func (s *Service) UserByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, apperr.New(apperr.NotFound, "user not found")
		}
		return domain.User{}, apperr.Wrap(apperr.Persistence, err, "fetch user")
	}
	return user, nil
}

// VerifyToken delegates to the token manager.
func (s *Service) VerifyToken(raw string) (*Claims, error) {
	return s.tokens.Verify(raw)
}

func (s *Service) newSession(user domain.User) (Session, error) {
	token, err := s.tokens.Issue(user.ID, user.Email, user.FirstName+" "+user.LastName)
	if err != nil {
		return Session{}, apperr.Wrap(apperr.Persistence, err, "issue token")
	}
	return Session{Token: token, User: user}, nil
}

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	database "github.com/sebuszqo/ExpenseTracker/db"
	"github.com/sebuszqo/ExpenseTracker/internal/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	maxEmailLength    = 255
	minPasswordLength = 6
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
)

var (
	ErrInvalidEmail          = errors.New("email address is not valid")
	ErrUsernameLength        = fmt.Errorf("username must be between %d and %d characters", minUsernameLength, maxUsernameLength)
	ErrPasswordLength        = fmt.Errorf("password must be between %d and %d characters", minPasswordLength, maxPasswordLength)
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrInternalError         = errors.New("internal Server Error")
)

// IsValidationError reports whether err was caused by bad registration input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEmail) || errors.Is(err, ErrUsernameLength) || errors.Is(err, ErrPasswordLength)
}

// IsConflictError reports whether the username or email is already taken.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrUsernameAlreadyExists) || errors.Is(err, ErrEmailAlreadyExists)
}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserView is the public part of a user, safe to return to clients.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) View() *UserView {
	return &UserView{ID: u.ID, Username: u.Username, Email: u.Email}
}

// Onboarder prepares the data every new account starts with. It writes through
// tx so the account and its data are committed together.
type Onboarder interface {
	SeedDefaultCategories(ctx context.Context, tx database.Tx, userID string) error
}

type Service interface {
	Register(ctx context.Context, username, email, password string) (*UserView, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

type service struct {
	repo       Repository
	onboarder  Onboarder
	bcryptCost int
	logger     *log.Logger
}

func NewUserService(repo Repository, onboarder Onboarder, bcryptCost int, logger *log.Logger) Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &service{
		repo:       repo,
		onboarder:  onboarder,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *service) hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	return string(hashedPasswordBytes), err
}

func validateEmailAddress(email string) error {
	if len(email) > maxEmailLength {
		return ErrInvalidEmail
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

func validateRegistration(username, email, password string) error {
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return ErrUsernameLength
	}
	if err := validateEmailAddress(email); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(password); n < minPasswordLength || len(password) > maxPasswordLength {
		return ErrPasswordLength
	}
	return nil
}

func (s *service) Register(ctx context.Context, username, email, password string) (*UserView, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateRegistration(username, email, password); err != nil {
		return nil, err
	}

	taken, err := s.repo.existsByUsername(ctx, username)
	if err != nil {
		s.logger.ErrorContext(ctx, "username lookup failed", "error", err)
		return nil, ErrInternalError
	}
	if taken {
		return nil, ErrUsernameAlreadyExists
	}
	taken, err = s.repo.existsByEmail(ctx, email)
	if err != nil {
		s.logger.ErrorContext(ctx, "email lookup failed", "error", err)
		return nil, ErrInternalError
	}
	if taken {
		return nil, ErrEmailAlreadyExists
	}

	passwordHash, err := s.hashPassword(password)
	if err != nil {
		s.logger.ErrorContext(ctx, "password hashing failed", "error", err)
		return nil, ErrInternalError
	}

	user := &User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.createWithDefaults(ctx, user); err != nil {
		if IsConflictError(err) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "registration failed", "username", username, "error", err)
		return nil, ErrInternalError
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user.View(), nil
}

// createWithDefaults stores the user and runs onboarding in one transaction.
func (s *service) createWithDefaults(ctx context.Context, user *User) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}

	if err := s.repo.createUser(ctx, tx, user); err != nil {
		s.safeRollback(ctx, tx)
		return err
	}
	if err := s.onboarder.SeedDefaultCategories(ctx, tx, user.ID); err != nil {
		s.safeRollback(ctx, tx)
		return err
	}
	return tx.Commit()
}

func (s *service) safeRollback(ctx context.Context, tx database.Tx) {
	if err := tx.Rollback(); err != nil {
		s.logger.ErrorContext(ctx, "transaction rollback failed", "error", err)
	}
}

func (s *service) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.getUserByUsername(ctx, username)
}

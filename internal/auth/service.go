package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sebuszqo/ExpenseTracker/internal/log"
	"github.com/sebuszqo/ExpenseTracker/internal/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInternalError      = errors.New("internal Server Error")
)

// UserProvider looks up accounts by their login name.
type UserProvider interface {
	GetUserByUsername(ctx context.Context, username string) (*user.User, error)
}

type Service interface {
	Login(ctx context.Context, username, password string) (string, *user.UserView, error)
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	userService UserProvider
	jwtManager  JWTManagerInterface
	logger      *log.Logger
	// compared against when the user does not exist, so both failures cost one bcrypt run
	dummyHash []byte
}

func NewAuthService(userService UserProvider, jwtManager JWTManagerInterface, bcryptCost int, logger *log.Logger) (Service, error) {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = log.Nop()
	}
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	if err != nil {
		return nil, err
	}
	return &service{
		userService: userService,
		jwtManager:  jwtManager,
		logger:      logger,
		dummyHash:   dummyHash,
	}, nil
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

// Login returns a signed access token and the public user data. Unknown users
// and wrong passwords both yield ErrInvalidCredentials. The username is
// trimmed the same way registration stores it.
func (s *service) Login(ctx context.Context, username, password string) (string, *user.UserView, error) {
	username = strings.TrimSpace(username)
	existingUser, err := s.userService.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", nil, ErrInvalidCredentials
		}
		s.logger.ErrorContext(ctx, "user lookup failed", "error", err)
		return "", nil, ErrInternalError
	}

	if !doPasswordsMatch(existingUser.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessJWT(existingUser.Username)
	if err != nil {
		s.logger.ErrorContext(ctx, "token signing failed", "error", err)
		return "", nil, ErrInternalError
	}
	return token, existingUser.View(), nil
}

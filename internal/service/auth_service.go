package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukapos/dukapos/internal/domain"
	"github.com/dukapos/dukapos/internal/security/auth"
)

// Validation failures for registration, each a distinct rejection reason
var (
	ErrFieldsRequired   = errors.New("username and password are required")
	ErrUsernameTooShort = errors.New("username too short")
	ErrPasswordTooShort = errors.New("password too short")
	ErrUsernameInvalid  = errors.New("username may only contain letters, digits and underscore")
	ErrUnknownRole      = errors.New("unknown role")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

const sessionDuration = 24 * time.Hour

// AuthService registers accounts and authenticates login attempts
type AuthService struct {
	userRepo     domain.UserRepository
	tokenManager *auth.TokenManager
	bcryptCost   int
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo domain.UserRepository,
	tokenManager *auth.TokenManager,
	bcryptCost int,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		userRepo:     userRepo,
		tokenManager: tokenManager,
		bcryptCost:   bcryptCost,
		logger:       logger,
	}
}

// RegisterResult represents registration response. Registration does not
// log the account in; the client authenticates separately.
type RegisterResult struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResult represents login response
type LoginResult struct {
	UserID    int64  `json:"userId"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
	TokenType string `json:"token_type"`
}

// Register creates a new user account. Inputs are trimmed of surrounding
// whitespace, then validated in a fixed order so every rejection has one
// distinct reason. Uniqueness is enforced by the database constraint, not a
// prior lookup.
func (s *AuthService) Register(ctx context.Context, username, password string, role domain.Role) (*RegisterResult, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" || password == "" {
		return nil, ErrFieldsRequired
	}
	if len(username) < 3 {
		return nil, ErrUsernameTooShort
	}
	if len(password) < 6 {
		return nil, ErrPasswordTooShort
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	if !role.Valid() {
		return nil, ErrUnknownRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, errors.New("failed to register user")
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			return nil, domain.ErrUsernameTaken
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, errors.New("failed to register user")
	}

	s.logger.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)

	return &RegisterResult{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}, nil
}

// Login authenticates a user and returns a signed session token. Unknown
// usernames and wrong passwords produce the same generic outcome so the
// caller cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Info("login attempt with unknown username", slog.String("username", username))
			return nil, domain.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user", slog.String("error", err.Error()))
		return nil, errors.New("failed to authenticate")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed with wrong password", slog.String("username", username))
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenManager.GenerateToken(user.ID, user.Username, string(user.Role), sessionDuration)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, errors.New("failed to generate token")
	}

	s.logger.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return &LoginResult{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		Token:     token,
		ExpiresIn: int(sessionDuration.Seconds()),
		TokenType: "Bearer",
	}, nil
}

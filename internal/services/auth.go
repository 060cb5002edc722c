package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"
	"unicode"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"mindtrack-backend/internal/middleware"
	"mindtrack-backend/internal/models"
	"mindtrack-backend/internal/repository"
)

const (
	resetCodeTTL    = 10 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
	accessTokenSecs = 24 * 60 * 60
)

type AuthService struct {
	userRepo     *repository.UserRepo
	redis        *redis.Client
	jwt          *middleware.JWTAuth
	email        *EmailService
	supportEmail string
}

func NewAuthService(userRepo *repository.UserRepo, redisClient *redis.Client, jwt *middleware.JWTAuth, email *EmailService, supportEmail string) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		redis:        redisClient,
		jwt:          jwt,
		email:        email,
		supportEmail: supportEmail,
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	fieldErrors := make(map[string]string)

	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !emailRegex.MatchString(req.Email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if err := validatePassword(req.Password); err != nil {
		fieldErrors["password"] = err.Error()
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		if !existing.IsActive {
			return nil, &ForbiddenError{Message: s.deactivatedMessage()}
		}
		return nil, &ConflictError{Message: "Email already registered"}
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthTokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &UnauthorizedError{Message: "Incorrect email or password"}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &UnauthorizedError{Message: "Incorrect email or password"}
	}

	if !user.IsActive {
		return nil, &ForbiddenError{Message: s.deactivatedMessage()}
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {
	userID, err := s.redis.Get(ctx, "refresh:"+refreshToken).Result()
	if err != nil {
		return nil, &UnauthorizedError{Message: "Invalid or expired refresh token. Please log in again."}
	}

	// Rotate: the old token is single-use.
	s.redis.Del(ctx, "refresh:"+refreshToken)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, &ForbiddenError{Message: s.deactivatedMessage()}
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.redis.Del(ctx, "refresh:"+refreshToken).Err()
}

// ForgotPassword emails a 6-digit verification code with a 10-minute TTL.
// Repeat requests inside 60 seconds are rejected.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Message: "Email not registered"}
		}
		return err
	}

	limitKey := "reset_limit:" + user.Email
	exists, _ := s.redis.Exists(ctx, limitKey).Result()
	if exists > 0 {
		return &RateLimitError{Message: "Please wait 60 seconds before requesting another code"}
	}

	code, err := generateVerificationCode()
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, "reset_code:"+user.Email, code, resetCodeTTL).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	s.redis.Set(ctx, limitKey, "1", 60*time.Second)

	go s.email.SendVerificationCode(user.Email, code)
	return nil
}

// VerifyCode checks a reset code without consuming it, so the client can
// validate before showing the new-password form.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) error {
	stored, err := s.redis.Get(ctx, "reset_code:"+email).Result()
	if err != nil || stored != code {
		return &UnauthorizedError{Message: "Invalid or expired code"}
	}
	return nil
}

// ResetPassword sets a new password after re-checking the code, then
// consumes it.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := s.VerifyCode(ctx, req.Email, req.Code); err != nil {
		return err
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return &ValidationError{Fields: map[string]string{"new_password": err.Error()}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, req.Email, string(hash)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Message: "Email not registered"}
		}
		return err
	}

	s.redis.Del(ctx, "reset_code:"+req.Email)
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*models.AuthTokens, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID.Hex(), user.Email, middleware.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := generateToken(64)
	if err != nil {
		return nil, err
	}
	if err := s.redis.Set(ctx, "refresh:"+refreshToken, user.ID.Hex(), refreshTokenTTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    accessTokenSecs,
	}, nil
}

func (s *AuthService) deactivatedMessage() string {
	return fmt.Sprintf("Your account has been deactivated. Please contact support at %s.", s.supportEmail)
}

func generateToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return fmt.Sprintf("%x", b), nil
}

// generateVerificationCode returns a random 6-digit code.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func validatePassword(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("Password must be at least 8 characters")
	}
	hasNumber := false
	for _, ch := range pw {
		if unicode.IsDigit(ch) {
			hasNumber = true
			break
		}
	}
	if !hasNumber {
		return fmt.Errorf("Password must contain at least one number")
	}
	return nil
}

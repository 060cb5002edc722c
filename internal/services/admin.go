package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"mindtrack-backend/internal/middleware"
	"mindtrack-backend/internal/models"
	"mindtrack-backend/internal/repository"
)

type AdminService struct {
	adminRepo *repository.AdminRepo
	userRepo  *repository.UserRepo
	jwt       *middleware.JWTAuth
	email     *EmailService
}

func NewAdminService(adminRepo *repository.AdminRepo, userRepo *repository.UserRepo, jwt *middleware.JWTAuth, email *EmailService) *AdminService {
	return &AdminService{
		adminRepo: adminRepo,
		userRepo:  userRepo,
		jwt:       jwt,
		email:     email,
	}
}

func (s *AdminService) Login(ctx context.Context, req models.AdminLoginRequest) (*models.AuthTokens, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &UnauthorizedError{Message: "Invalid credentials"}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &UnauthorizedError{Message: "Invalid credentials"}
	}

	token, err := s.jwt.GenerateAccessToken(admin.ID.Hex(), admin.Username, middleware.RoleAdmin)
	if err != nil {
		return nil, err
	}

	return &models.AuthTokens{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   accessTokenSecs,
	}, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// SetUserStatus activates or deactivates an account and notifies the user
// by email. The notification is best-effort; the status change is not.
func (s *AdminService) SetUserStatus(ctx context.Context, email string, activate bool, reason string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Message: "User not found"}
		}
		return err
	}

	if err := s.userRepo.SetStatus(ctx, email, activate, reason); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Message: "User not found"}
		}
		return err
	}

	go s.email.SendAccountStatusEmail(user.Email, user.Name, activate, reason)
	return nil
}

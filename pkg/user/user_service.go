package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"GiveShare-Backend/domain"
	"GiveShare-Backend/entities"
	"GiveShare-Backend/internal/utils"
	"GiveShare-Backend/internal/utils/storage"
	"GiveShare-Backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MailSender delivers one email. The production wiring passes
// mailing.SendMail.
type MailSender func(toEmail string, subject string, body string) error

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
		SendVerificationEmail(ctx context.Context, req domain.SendVerificationEmailRequest) error
		VerifyEmail(ctx context.Context, token string) error
		Me(ctx context.Context, userID string) (*domain.UserResponse, error)
		UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) (*domain.UserResponse, error)
		GetProfileStats(ctx context.Context, userID string) (*domain.ProfileStats, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		s3             storage.AwsS3
		sendMail       MailSender
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, s3 storage.AwsS3, sendMail MailSender) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		s3:             s3,
		sendMail:       sendMail,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error) {
	_, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}

	// Registration succeeds even when the mail provider is down; the user
	// can ask for another verification email.
	go func() {
		if err := s.deliverVerificationEmail(user.Email); err != nil {
			log.Printf("verification email to %s failed: %v", user.Email, err)
		}
	}()

	return &domain.RegisterResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCredentialsInvalid
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), "user")
	return &domain.LoginResponse{Token: token, Role: "user"}, nil
}

func (s *userService) SendVerificationEmail(ctx context.Context, req domain.SendVerificationEmailRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	if user.IsVerified {
		return nil
	}
	return s.deliverVerificationEmail(user.Email)
}

func (s *userService) deliverVerificationEmail(email string) error {
	token, err := s.jwtService.GenerateTokenVerifyEmail(map[string]any{"email": email}, 24*time.Hour)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", utils.GetConfig("APP_URL"), token)
	body := fmt.Sprintf(`
		<h3>Welcome to GiveShare!</h3>
		<p>Click the link below to verify your email address:</p>
		<p><a href="%s">Verify Email</a></p>
		<p>The link expires in 24 hours.</p>
	`, link)

	return s.sendMail(email, "Verify your GiveShare account", body)
}

func (s *userService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateTokenVerifyEmail(token)
	if err != nil {
		return err
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return domain.ErrTokenInvalid
	}

	if _, err := s.userRepository.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	return s.userRepository.MarkEmailVerified(ctx, email)
}

func (s *userService) Me(ctx context.Context, userID string) (*domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) (*domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if req.Avatar != nil {
		key, err := s.s3.UploadFile(
			fmt.Sprintf("avatar-%s", user.ID.String()),
			req.Avatar,
			"avatars",
			storage.AllowImage...,
		)
		if err != nil {
			return nil, err
		}
		user.AvatarURL = s.s3.GetPublicLinkKey(key)
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) GetProfileStats(ctx context.Context, userID string) (*domain.ProfileStats, error) {
	listed, err := s.userRepository.CountItemsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	donated, err := s.userRepository.CountDonatedByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	received, err := s.userRepository.CountPendingIncomingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.ProfileStats{
		ItemsListed:      listed,
		ItemsDonated:     donated,
		RequestsReceived: received,
	}, nil
}

func toUserResponse(user *entities.User) *domain.UserResponse {
	return &domain.UserResponse{
		ID:         user.ID.String(),
		Name:       user.Name,
		Email:      user.Email,
		AvatarURL:  user.AvatarURL,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/careerfindr/careerfindr-api/internal/config"
	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/careerfindr/careerfindr-api/internal/modules/user/dto"
	"github.com/careerfindr/careerfindr-api/internal/modules/user/repository"
	"github.com/careerfindr/careerfindr-api/pkg/apperror"
	"github.com/careerfindr/careerfindr-api/pkg/mailer"
	"github.com/careerfindr/careerfindr-api/pkg/ratelimiter"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	GoogleLogin() string
	GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error
}

type authService struct {
	repo         repository.UserRepository
	mail         mailer.Mailer
	cfg          *config.Config
	redisClient  *redis.Client
	googleConfig *oauth2.Config
}

func NewAuthService(repo repository.UserRepository, mail mailer.Mailer, cfg *config.Config, redisClient *redis.Client) AuthService {
	googleConfig := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &authService{
		repo:         repo,
		mail:         mail,
		cfg:          cfg,
		redisClient:  redisClient,
		googleConfig: googleConfig,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	if user.Status != model.UserStatusActive {
		return nil, apperror.ErrAccountPending
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := s.repo.FindRoleByName(ctx, input.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role %s not found", input.Role)
		}
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roleID := role.ID
	user := &model.User{
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		RoleID:       &roleID,
	}

	// Students are active immediately; institutes and companies wait for
	// admin approval before they can sign in.
	switch input.Role {
	case model.RoleStudent:
		user.Status = model.UserStatusActive
		if err := s.repo.CreateWithCandidateProfile(ctx, user, &model.CandidateProfile{}); err != nil {
			return nil, err
		}
	default:
		if input.OrgName == "" {
			return nil, errors.New("org_name is required for institute and company accounts")
		}
		user.Status = model.UserStatusPending
		if err := s.repo.CreateWithOrgProfile(ctx, user, &model.OrgProfile{OrgName: input.OrgName}); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	if created.Status != model.UserStatusActive {
		// No token for pending accounts; the client shows an "awaiting
		// approval" screen.
		created.PasswordHash = ""
		return &dto.AuthResponse{User: created}, nil
	}

	return s.buildAuthResponse(created)
}

func (s *authService) GoogleLogin() string {
	return s.googleConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
}

func (s *authService) GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error) {
	token, err := s.googleConfig.Exchange(ctx, code)
	if err != nil {
		return nil, errors.New("failed to exchange token: " + err.Error())
	}

	client := s.googleConfig.Client(ctx, token)
	userInfoResp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, errors.New("failed to get user info: " + err.Error())
	}
	defer userInfoResp.Body.Close()

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}

	if err := json.NewDecoder(userInfoResp.Body).Decode(&googleUser); err != nil {
		return nil, errors.New("failed to decode user info: " + err.Error())
	}

	user, err := s.repo.FindByEmail(ctx, googleUser.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Federated sign-ups are always student accounts; org accounts
			// go through the reviewed registration flow.
			randomPassword := uuid.New().String()
			hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(randomPassword), bcrypt.DefaultCost)

			role, err := s.repo.FindRoleByName(ctx, model.RoleStudent)
			if err != nil {
				return nil, errors.New("student role not found")
			}

			roleID := role.ID
			newUser := &model.User{
				FullName:     googleUser.Name,
				Email:        googleUser.Email,
				PasswordHash: string(hashedPassword),
				RoleID:       &roleID,
				Status:       model.UserStatusActive,
			}
			if googleUser.Picture != "" {
				newUser.AvatarURL = &googleUser.Picture
			}

			if err := s.repo.CreateWithCandidateProfile(ctx, newUser, &model.CandidateProfile{}); err != nil {
				return nil, err
			}

			user, err = s.repo.FindByEmail(ctx, googleUser.Email)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	if user.Status != model.UserStatusActive {
		return nil, apperror.ErrAccountPending
	}

	return s.buildAuthResponse(user)
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Don't reveal whether the address exists.
			return nil
		}
		return err
	}

	// One reset mail per account per cooldown; repeats get throttled rather
	// than flooding the inbox.
	cooldown := ratelimiter.GetDurationFromEnv("RATE_LIMIT_PASSWORD_RESET", 5*time.Minute)
	allowed, err := ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, user.ID, "password_reset", cooldown)
	if err != nil {
		return fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		return apperror.ErrRateLimitExceeded
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	reset := &model.PasswordReset{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.cfg.ResetTokenTTL),
	}
	if err := s.repo.CreatePasswordReset(ctx, reset); err != nil {
		return err
	}

	if s.mail == nil {
		log.Printf("mailer not configured, reset token for %s: %s", email, token)
		return nil
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.FrontendURL, token)
	body := fmt.Sprintf("Hi %s,\n\nReset your Career Findr password using the link below:\n%s\n\nThe link expires in %s.", user.FullName, link, s.cfg.ResetTokenTTL)
	if err := s.mail.Send(ctx, user.Email, "Reset your Career Findr password", body); err != nil {
		log.Printf("failed to send reset email to %s: %v", email, err)
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, input dto.ResetPasswordInput) error {
	reset, err := s.repo.FindPasswordReset(ctx, input.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("invalid or expired reset token")
		}
		return err
	}

	if time.Now().After(reset.ExpiresAt) {
		_ = s.repo.DeletePasswordReset(ctx, input.Token)
		return errors.New("invalid or expired reset token")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, reset.UserID, string(hashedPassword)); err != nil {
		return err
	}

	return s.repo.DeletePasswordReset(ctx, input.Token)
}

func (s *authService) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	user.PasswordHash = ""

	return &dto.AuthResponse{
		Token: signed,
		User:  user,
	}, nil
}

package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

type UserUsecase interface {
	Register(ctx context.Context, name, email, password string) (*domain.AuthResult, error)
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	GetProfile(ctx context.Context, userID int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type userUsecase struct {
	userRepo  domain.UserRepository
	log       *logrus.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewUserUsecase(userRepo domain.UserRepository, logger *logrus.Logger, jwtSecret string, tokenTTL time.Duration) UserUsecase {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &userUsecase{
		userRepo:  userRepo,
		log:       logger,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidRequest)
	}
	return nil
}

func (u *userUsecase) Register(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}
	if !isValidEmail(email) {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidRequest)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Errorf("Use Case: Failed to hash password: %v", err)
		return nil, fmt.Errorf("could not process registration: %w", err)
	}

	user, err := u.userRepo.CreateUser(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	token, err := u.issueToken(user)
	if err != nil {
		return nil, err
	}
	u.log.Infof("Use Case: User %d registered", user.ID)
	return &domain.AuthResult{Token: token, User: user}, nil
}

func (u *userUsecase) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		// Same failure for unknown email and wrong password.
		u.log.Warnf("Use Case: Login attempt for unknown email")
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		u.log.Warnf("Use Case: Invalid password for user %d", user.ID)
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	token, err := u.issueToken(user)
	if err != nil {
		return nil, err
	}
	u.log.Infof("Use Case: User %d logged in", user.ID)
	return &domain.AuthResult{Token: token, User: user}, nil
}

func (u *userUsecase) issueToken(user *domain.User) (string, error) {
	role := "customer"
	if user.IsAdmin {
		role = "admin"
	}
	claims := jwt.MapClaims{
		"id":   user.ID,
		"role": role,
		"exp":  time.Now().Add(u.tokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(u.jwtSecret)
	if err != nil {
		u.log.Errorf("Use Case: Failed to sign token for user %d: %v", user.ID, err)
		return "", fmt.Errorf("could not issue token: %w", err)
	}
	return signed, nil
}

func (u *userUsecase) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	return u.userRepo.GetUserByID(ctx, userID)
}

func (u *userUsecase) ListUsers(ctx context.Context) ([]domain.User, error) {
	return u.userRepo.ListUsers(ctx)
}

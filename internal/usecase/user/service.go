package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/threadboard/comments/domain"
	"github.com/threadboard/comments/internal/auth"
)

type Service struct {
	userRepo  domain.UserRepository
	jwtSecret []byte
	jwtTTL    time.Duration
}

var _ domain.UserUsecase = (*Service)(nil)

// NewService will create a new user service object
func NewService(userRepo domain.UserRepository, jwtSecret []byte, jwtTTL time.Duration) *Service {
	return &Service{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
	}
}

// Register creates a fresh account in PENDING status. The comment core
// never mutates users afterwards.
func (s *Service) Register(ctx context.Context, fullName, email, password string) (domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" || email == "" || password == "" {
		return domain.User{}, domain.ErrBadParamInput
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return domain.User{}, domain.ErrConflict
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now()
	u := domain.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Status:       domain.StatusPending,
		Role:         domain.RoleUser,
		// registration counts as activity; the DATE column rejects the
		// zero time under strict mode
		LastActivityDate: now,
		CreatedAt:        now,
	}
	if err := s.userRepo.Insert(ctx, &u); err != nil {
		return domain.User{}, err
	}

	return u, nil
}

// Login verifies credentials and returns a signed token carrying the
// opaque user id.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrBadParamInput
	}

	return auth.GenerateToken(u.ID, s.jwtSecret, s.jwtTTL)
}

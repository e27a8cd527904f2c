package services

import (
	"context"
	"errors"
	"time"

	"github.com/lifestyleblend/apiserver/internal/captcha"
	"github.com/lifestyleblend/apiserver/internal/logging"
	"github.com/lifestyleblend/apiserver/internal/notify"
	"github.com/lifestyleblend/apiserver/internal/store"
	"github.com/lifestyleblend/apiserver/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	GetUsernames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

// RegistrationNotifier delivers best-effort operator notifications.
type RegistrationNotifier interface {
	SendRegistration(ctx context.Context, reg notify.Registration) error
}

// UserService encapsulates registration, CAPTCHA and login use-cases.
type UserService struct {
	repo     UserRepository
	captchas *captcha.Store
	notifier RegistrationNotifier
	log      logging.Logger
}

func NewUserService(repo UserRepository, captchas *captcha.Store, notifier RegistrationNotifier, log logging.Logger) *UserService {
	return &UserService{
		repo:     repo,
		captchas: captchas,
		notifier: notifier,
		log:      log,
	}
}

// Register creates an account. The operator notification is best-effort:
// a delivery failure is logged and never fails the registration.
func (s *UserService) Register(ctx context.Context, email, username, password string) (types.User, error) {
	if email == "" || username == "" || password == "" {
		return types.User{}, ErrMissingFields
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hashed),
	})
	if err != nil {
		return types.User{}, err
	}

	if s.notifier != nil {
		reg := notify.Registration{Username: username, Email: email, At: time.Now()}
		if err := s.notifier.SendRegistration(ctx, reg); err != nil {
			s.log.Warn(ctx, "registration notification failed", "username", username, "error", err)
		}
	}

	return user, nil
}

// GenerateCaptcha issues a new login challenge.
func (s *UserService) GenerateCaptcha() (id, code string) {
	return s.captchas.Issue()
}

// Login verifies the CAPTCHA and credentials. All credential failures
// surface as the same ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password, captchaID, captchaValue string) (types.User, error) {
	if !s.captchas.Verify(captchaID, captchaValue) {
		return types.User{}, ErrInvalidCaptcha
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID loads a user by id.
func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

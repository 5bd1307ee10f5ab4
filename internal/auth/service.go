package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"habitTracker/internal/logger"
	"habitTracker/internal/models/user"
	"habitTracker/internal/repository"
	"habitTracker/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Session - результат входа: токен доступа и пользователь
type Session struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
}

type Service struct {
	users      UserRepository
	sessions   SessionStore
	tokens     *TokenIssuer
	bcryptCost int
}

func NewService(users UserRepository, sessions SessionStore, tokens *TokenIssuer) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func invalidCredentials() *service.BusinessError {
	return service.NewBusinessError(service.CodeInvalidCredentials, "Неверный email или пароль")
}

func unauthorized(err error) *service.BusinessError {
	busErr := service.NewBusinessError(service.CodeUnauthorized, "Сессия недействительна, войдите снова")
	busErr.Err = err
	return busErr
}

func (s *Service) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = user.NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, service.NewValidationError("email", "некорректный адрес")
	}
	if len(password) < MinPasswordLength {
		return nil, service.NewValidationError("password",
			fmt.Sprintf("пароль должен содержать не меньше %d символов", MinPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("хеширование пароля: %w", err)
	}

	newUser := &user.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         user.NameFromEmail(email),
		PasswordHash: string(hash),
		Settings:     user.DefaultSettings(),
	}
	if err := s.users.Create(ctx, newUser); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, service.NewBusinessError(service.CodeEmailTaken, "Пользователь с таким email уже зарегистрирован",
				service.ToDetail("email", email))
		}
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}

	logger.Info("Auth: Пользователь зарегистрирован", zap.String("user_id", newUser.ID.String()))
	return s.startSession(ctx, newUser)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	found, err := s.users.GetByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("поиск пользователя: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)); err != nil {
		logger.Info("Auth: Неверный пароль", zap.String("user_id", found.ID.String()))
		return nil, invalidCredentials()
	}

	return s.startSession(ctx, found)
}

func (s *Service) startSession(ctx context.Context, u *user.User) (*Session, error) {
	token, sessionID, expiresAt, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, sessionID, u.ID, s.tokens.TTL()); err != nil {
		return nil, fmt.Errorf("начало сессии: %w", err)
	}

	logger.Info("Auth: Вход выполнен", zap.String("user_id", u.ID.String()))
	return &Session{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// SignOut отзывает сессию токена и возвращает её владельца. Повторный вызов и
// недействительный токен не ошибка: владелец тогда uuid.Nil или уже отозван.
func (s *Service) SignOut(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		logger.Debug("Auth: Выход с недействительным токеном", zap.Error(err))
		return uuid.Nil, nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return uuid.Nil, fmt.Errorf("выход из системы: %w", err)
	}
	logger.Info("Auth: Сессия отозвана", zap.String("subject", claims.Subject))

	owner, err := claims.UserID()
	if err != nil {
		return uuid.Nil, nil
	}
	return owner, nil
}

// Authenticate проверяет токен и сессию и возвращает пользователя.
func (s *Service) Authenticate(ctx context.Context, token string) (*user.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, unauthorized(err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, unauthorized(err)
	}

	sessionUser, err := s.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, unauthorized(err)
		}
		return nil, fmt.Errorf("проверка сессии: %w", err)
	}
	if sessionUser != userID {
		return nil, unauthorized(ErrInvalidToken)
	}

	found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unauthorized(err)
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return found, nil
}

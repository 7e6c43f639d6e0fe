package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/anshul4117/Blog/internal/models"
	"github.com/anshul4117/Blog/internal/pkg/log"
	"github.com/anshul4117/Blog/internal/storage"
)

// AuthResult — результат логина/регистрации: пара токенов и публичная
// выжимка профиля.
type AuthResult struct {
	Tokens models.TokenPair
	User   models.UserSummary
}

// dummyPasswordHash — валидный bcrypt-хэш, на котором выполняется холостое
// сравнение, когда пользователь не найден. Логин с неизвестным email и логин
// с неверным паролем занимают сопоставимое время и дают одинаковый ответ.
var dummyPasswordHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// RegisterUser регистрирует нового пользователя и сразу аутентифицирует его.
func (s *Service) RegisterUser(ctx context.Context, email, username, name, password string) (*AuthResult, error) {
	const op = "service.auth.RegisterUser"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        normEmail,
		Username:     strings.TrimSpace(username),
		Name:         strings.TrimSpace(name),
		Role:         "user",
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.issueTokenPair(ctx, user, "")
}

// LoginUser выполняет вход по email+пароль.
// Неизвестный email и неверный пароль неразличимы для клиента: один ответ,
// сравнимое время (холостой bcrypt на dummy-хэше).
func (s *Service) LoginUser(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "service.auth.LoginUser"

	normEmail, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if len(password) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			checkPassword(dummyPasswordHash, password)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return s.issueTokenPair(ctx, user, "")
}

// RefreshToken обновляет пару токенов по refresh-токену с обязательной
// ротацией: старая запись удаляется, выпускается новая с полным TTL.
// Повторное предъявление ротированного значения неотличимо от кражи
// и завершается ErrUnknownToken.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	const op = "service.auth.RefreshToken"

	token, err := s.validateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUnknownToken)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.issueTokenPair(ctx, user, hashRefreshToken(refreshToken))
}

// Logout завершает сессию: удаляет запись refresh-токена (идемпотентно)
// и помещает access-токен в денайлист на его остаточное время жизни.
//
// Недоступность денайлиста не проваливает logout: refresh-токен уже
// отозван, access-токен доживёт свой короткий срок.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	const op = "service.auth.Logout"

	lg := log.From(ctx)

	if refreshToken != "" {
		if _, err := s.storage.DeleteRefreshToken(ctx, hashRefreshToken(refreshToken)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	expiresAt, err := s.decodeAccessExpiry(accessToken)
	if err != nil {
		// Чужой или битый access-токен в денайлист не кладём.
		return fmt.Errorf("%s: %w", op, err)
	}

	remaining := time.Until(expiresAt)
	if err := s.denylist.Add(ctx, accessToken, remaining); err != nil {
		lg.Warn("denylist_add_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	return nil
}

// Authorize проверяет access-токен и возвращает его утверждения.
// Порядок проверок фиксирован: сначала дешёвая бесстатусная криптография
// (подпись+срок), затем поход в денайлист — сетевой запрос выполняется
// только для токенов, прошедших подпись.
func (s *Service) Authorize(ctx context.Context, accessToken string) (*Claims, error) {
	const op = "service.auth.Authorize"

	claims, err := s.validateAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	denied, err := s.denylist.Contains(ctx, accessToken)
	if err != nil {
		// Деградация fail-open: недоступный денайлист равносилен промаху,
		// токен доживает естественный короткий срок.
		log.From(ctx).Warn("denylist_check_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return claims, nil
	}

	if denied {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	return claims, nil
}

// Profile возвращает публичную выжимку профиля пользователя.
func (s *Service) Profile(ctx context.Context, userID string) (*models.UserSummary, error) {
	const op = "service.auth.Profile"

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary := user.Summary()
	return &summary, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateEmail проверяет базовый формат email и обрезает пробелы снаружи.
func validateEmail(raw string) (string, error) {
	const op = "service.auth.validateEmail"

	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	return strings.ToLower(email), nil
}

// validatePassword проверяет минимальные требования к паролю.
// Политика по умолчанию: длина >= 8, хотя бы одна строчная, заглавная, цифра и спецсимвол.
func validatePassword(pw string) error {
	const op = "service.auth.validatePassword"

	if len(pw) == 0 {
		return fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}

	if len([]rune(pw)) < 8 {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return fmt.Errorf("%s: %w", op, ErrWeakPassword)
	}

	return nil
}

// issueTokenPair выпускает новую пару access+refresh токенов.
// Если oldRefreshHash != "", сначала выполняется ротация: удаление старой
// записи. Ровно один конкурентный вызов с одним и тем же значением получает
// true от DeleteRefreshToken; остальные завершаются ErrUnknownToken.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User, oldRefreshHash string) (*AuthResult, error) {
	const op = "service.auth.issueTokenPair"

	now := time.Now().UTC()

	if oldRefreshHash != "" {
		deleted, err := s.storage.DeleteRefreshToken(ctx, oldRefreshHash)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if !deleted {
			return nil, fmt.Errorf("%s: %w", op, ErrUnknownToken)
		}
	}

	accessToken, err := s.generateAccessToken(ctx, user, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	plain, err := s.generateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &AuthResult{
		Tokens: models.TokenPair{
			AccessToken:     accessToken,
			RefreshToken:    plain,
			AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
		},
		User: user.Summary(),
	}, nil
}

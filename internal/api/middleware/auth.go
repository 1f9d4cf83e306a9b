package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	profileRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/profile"
)

const (
	msgMissingToken = "требуется авторизация"
	msgInvalidToken = "недействительный токен"
	msgAdminOnly    = "доступно только администратору"
)

// ProfileLoader загружает профиль пользователя для определения роли
type ProfileLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Authenticator проверяет Bearer JWT (HS256) и загружает роль из профиля
type Authenticator struct {
	secret   []byte
	issuer   string
	profiles ProfileLoader
	logger   Logger
}

// NewAuthenticator создает middleware аутентификации.
// issuer опционален
func NewAuthenticator(secret, issuer string, profiles ProfileLoader, logger Logger) *Authenticator {
	return &Authenticator{
		secret:   []byte(secret),
		issuer:   issuer,
		profiles: profiles,
		logger:   logger,
	}
}

// Middleware возвращает http middleware
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}

		userID, err := a.parse(raw)
		if err != nil {
			a.logger.Warn("Auth: invalid token: %v", err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		// Роль берется из профиля, а не из токена
		role := domain.RoleClient
		profile, err := a.profiles.GetByID(r.Context(), userID)
		switch {
		case err == nil:
			role = profile.Role
		case errors.Is(err, profileRepo.ErrProfileNotFound):
			a.logger.Warn("Auth: profile not found for user=%s, treating as client", userID)
		default:
			a.logger.Error("Auth: failed to load profile for user=%s: %v", userID, err)
			handlers.RespondInternalError(w)
			return
		}

		ctx := WithPrincipal(r.Context(), Principal{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) parse(raw string) (uuid.UUID, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	return uuid.Parse(claims.Subject)
}

// RequireAdmin пропускает только администраторов. Ставится после аутентификации
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := GetPrincipal(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}
		if !p.IsAdmin() {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

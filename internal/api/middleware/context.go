package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

type contextKey int

const principalKey contextKey = iota

// Principal аутентифицированный пользователь запроса
type Principal struct {
	UserID uuid.UUID
	Role   domain.Role
}

// IsAdmin сообщает, есть ли у пользователя права администратора
func (p Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

// WithPrincipal кладет пользователя в контекст
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal извлекает пользователя из контекста
func GetPrincipal(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	p, ok := GetPrincipal(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return p.UserID, true
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	profileRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/profile"
	"github.com/m04kA/SMC-GroomingService/pkg/logger"
)

const secret = "test-secret"

type fakeProfiles struct {
	profiles map[uuid.UUID]*domain.Profile
	err      error
}

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, profileRepo.ErrProfileNotFound
	}
	return p, nil
}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(sub uuid.UUID) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   sub.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func principalEcho(t *testing.T, got *Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := GetPrincipal(r.Context())
		require.True(t, ok)
		*got = p
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator(t *testing.T) {
	admin := uuid.New()
	client := uuid.New()
	profiles := &fakeProfiles{profiles: map[uuid.UUID]*domain.Profile{
		admin:  {ID: admin, Role: domain.RoleAdmin},
		client: {ID: client, Role: domain.RoleClient},
	}}
	auth := NewAuthenticator(secret, "", profiles, logger.Nop())

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantRole   domain.Role
	}{
		{"admin token", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(secret), validClaims(admin)), http.StatusOK, domain.RoleAdmin},
		{"client token", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(secret), validClaims(client)), http.StatusOK, domain.RoleClient},
		{"unknown profile is client", "bearer " + signToken(t, jwt.SigningMethodHS256, []byte(secret), validClaims(uuid.New())), http.StatusOK, domain.RoleClient},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"wrong secret", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims(client)), http.StatusUnauthorized, ""},
		{"wrong algorithm", "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(secret), validClaims(client)), http.StatusUnauthorized, ""},
		{"expired", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{
			Subject:   client.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}), http.StatusUnauthorized, ""},
		{"subject is not uuid", "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.RegisteredClaims{Subject: "42"}), http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Principal
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			auth.Middleware(principalEcho(t, &got)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantRole, got.Role)
			} else {
				assert.Contains(t, rec.Body.String(), `"code":401`)
			}
		})
	}
}

func TestAuthenticator_Issuer(t *testing.T) {
	user := uuid.New()
	auth := NewAuthenticator(secret, "salon", &fakeProfiles{}, logger.Nop())

	claims := validClaims(user)
	claims.Issuer = "someone-else"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(secret), claims))
	rec := httptest.NewRecorder()

	var got Principal
	auth.Middleware(principalEcho(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_ProfileStoreDown(t *testing.T) {
	auth := NewAuthenticator(secret, "", &fakeProfiles{err: errors.New("db down")}, logger.Nop())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte(secret), validClaims(uuid.New())))
	rec := httptest.NewRecorder()

	var got Principal
	auth.Middleware(principalEcho(t, &got)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name       string
		principal  *Principal
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"client", &Principal{UserID: uuid.New(), Role: domain.RoleClient}, http.StatusForbidden},
		{"admin", &Principal{UserID: uuid.New(), Role: domain.RoleAdmin}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.principal != nil {
				req = req.WithContext(WithPrincipal(req.Context(), *tt.principal))
			}
			rec := httptest.NewRecorder()

			RequireAdmin(ok).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	fixed := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/slots/available", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"), "limits are per client")

	fixed = fixed.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1"), "bucket refills over time")
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.allow("a")
	now = now.Add(visitorTTL + time.Second)
	rl.allow("b")

	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", clientIP(req))
}

type recordedObservation struct {
	method, route string
	status        int
}

type fakeHTTPMetrics struct {
	observed []recordedObservation
}

func (f *fakeHTTPMetrics) ObserveHTTP(method, route string, status int, _ time.Duration) {
	f.observed = append(f.observed, recordedObservation{method, route, status})
}

func TestMetricsMiddleware(t *testing.T) {
	collector := &fakeHTTPMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(collector))
	r.HandleFunc("/api/v1/appointments/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)
	r.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/appointments/123", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	require.Len(t, collector.observed, 2)
	assert.Equal(t, recordedObservation{http.MethodGet, "/api/v1/appointments/{id}", http.StatusNotFound}, collector.observed[0])
	assert.Equal(t, recordedObservation{http.MethodGet, "/ok", http.StatusOK}, collector.observed[1])
}

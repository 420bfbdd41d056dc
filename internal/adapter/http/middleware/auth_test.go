package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pariskandee/real-estate/internal/platform/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func userClaims(role string) *Claims {
	return &Claims{
		UserID: "user-1",
		Email:  "user@example.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-User-ID", CallerID(r.Context()))
		w.Header().Set("X-User-Email", CallerEmail(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuth_MissingToken(t *testing.T) {
	h := JWTAuth(testSecret, logger.New())(echoIdentity())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized - No token provided"}`, rec.Body.String())
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	h := JWTAuth(testSecret, logger.New())(echoIdentity())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized - Invalid token"}`, rec.Body.String())
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	h := JWTAuth(testSecret, logger.New())(echoIdentity())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", userClaims("user")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	h := JWTAuth(testSecret, logger.New())(echoIdentity())

	claims := userClaims("user")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_ValidTokenExposesIdentity(t *testing.T) {
	h := JWTAuth(testSecret, logger.New())(echoIdentity())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userClaims("user")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Header().Get("X-User-ID"))
	assert.Equal(t, "user@example.com", rec.Header().Get("X-User-Email"))
}

func TestJWTAuth_RejectsTokenWithoutSubject(t *testing.T) {
	h := JWTAuth(testSecret, logger.New())(echoIdentity())

	claims := userClaims("user")
	claims.UserID = ""
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalJWTAuth_AnonymousPassesThrough(t *testing.T) {
	h := OptionalJWTAuth(testSecret, logger.New())(echoIdentity())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/properties/abc", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-User-ID"))
}

func TestOptionalJWTAuth_BadTokenStillRejected(t *testing.T) {
	h := OptionalJWTAuth(testSecret, logger.New())(echoIdentity())

	req := httptest.NewRequest(http.MethodGet, "/api/properties/abc", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin_DeniesRegularUser(t *testing.T) {
	h := JWTAuth(testSecret, logger.New())(RequireAdmin(logger.New())(echoIdentity()))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userClaims("user")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Admin access required"}`, rec.Body.String())
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	h := JWTAuth(testSecret, logger.New())(RequireAdmin(logger.New())(echoIdentity()))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userClaims("admin")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

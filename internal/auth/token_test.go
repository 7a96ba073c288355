package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/catalog-service/internal/auth"
)

const testSecret = "unit-test-secret"

func TestTokenManager_IssueAndParse(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 60)

	token, exp, err := tm.Issue("a@b.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email())
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestTokenManager_Expired(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 60)

	// Sign an already-expired token with the shared secret; a correct
	// signature must not rescue an expired claim.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "a@b.com",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	tokenStr, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.Parse(tokenStr)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestTokenManager_Tampered(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 60)

	token, _, err := tm.Issue("a@b.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tm.Parse(tampered)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	other := auth.NewTokenManager("different-secret", 60)
	token, _, err := other.Issue("a@b.com")
	require.NoError(t, err)

	tm := auth.NewTokenManager(testSecret, 60)
	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenManager_Malformed(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 60)
	_, err := tm.Parse("not-a-token")
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)
}

func extractVia(t *testing.T, mutate func(*http.Request)) (string, bool) {
	t.Helper()

	var token string
	var found bool
	app := fiber.New()
	app.Get("/inspect", func(c *fiber.Ctx) error {
		token, found = auth.ExtractToken(c)
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/inspect", nil)
	mutate(req)
	// app.Test serializes the request from RequestURI, which NewRequest froze
	// before mutate ran; resync it so URL changes (e.g. RawQuery) take effect.
	req.RequestURI = req.URL.RequestURI()
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return token, found
}

func TestExtractToken_HeaderFirst(t *testing.T) {
	token, found := extractVia(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer header-token")
		q := req.URL.Query()
		q.Set("access_token", "query-token")
		req.URL.RawQuery = q.Encode()
	})
	assert.True(t, found)
	assert.Equal(t, "header-token", token)
}

func TestExtractToken_QueryFallback(t *testing.T) {
	token, found := extractVia(t, func(req *http.Request) {
		q := req.URL.Query()
		q.Set("access_token", "query-token")
		req.URL.RawQuery = q.Encode()
	})
	assert.True(t, found)
	assert.Equal(t, "query-token", token)
}

func TestExtractToken_MalformedHeaderFallsBack(t *testing.T) {
	token, found := extractVia(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Basic abc123")
		q := req.URL.Query()
		q.Set("access_token", "query-token")
		req.URL.RawQuery = q.Encode()
	})
	assert.True(t, found)
	assert.Equal(t, "query-token", token)
}

func TestExtractToken_Absent(t *testing.T) {
	token, found := extractVia(t, func(*http.Request) {})
	assert.False(t, found)
	assert.Empty(t, token)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(cfg *AuthConfig) *gin.Engine {
	router := gin.New()
	router.Use(Auth(cfg))
	router.GET("/whoami", func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.String(http.StatusOK, userID)
	})
	return router
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func request(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthValidToken(t *testing.T) {
	router := authRouter(&AuthConfig{Secret: testSecret})
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := request(router, "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "user-42" {
		t.Errorf("user = %q, want user-42", w.Body.String())
	}
}

func TestAuthRejects(t *testing.T) {
	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noSubject := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic dXNlcjpwYXNz"},
		{name: "garbage token", header: "Bearer not.a.token"},
		{name: "expired", header: "Bearer " + expired},
		{name: "wrong key", header: "Bearer " + wrongKey},
		{name: "no subject", header: "Bearer " + noSubject},
	}

	router := authRouter(&AuthConfig{Secret: testSecret})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(router, tt.header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestAuthIssuerCheck(t *testing.T) {
	router := authRouter(&AuthConfig{Secret: testSecret, Issuer: "gatherly-auth"})

	good := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"iss": "gatherly-auth",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	bad := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"iss": "someone-else",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	if w := request(router, "Bearer "+good); w.Code != http.StatusOK {
		t.Errorf("matching issuer rejected: %d", w.Code)
	}
	if w := request(router, "Bearer "+bad); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong issuer accepted: %d", w.Code)
	}
}

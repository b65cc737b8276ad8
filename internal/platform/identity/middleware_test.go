package identity_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"marketplace_backend/internal/platform/identity"
)

// mockVerifier is a mock implementation of the TokenVerifier interface.
type mockVerifier struct {
	VerifyFunc func(ctx context.Context, token string) (*identity.Identity, error)
}

func (m *mockVerifier) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, token)
	}
	return nil, identity.ErrInvalidToken
}

func setupProtected(verifier identity.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", identity.AuthRequired(verifier), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(identity.ContextUserID))
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		verifier   *mockVerifier
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing header is rejected with 401",
			authHeader: "",
			verifier:   &mockVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "non-bearer header is rejected with 401",
			authHeader: "Basic dXNlcjpwYXNz",
			verifier:   &mockVerifier{},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "rejected token yields 403",
			authHeader: "Bearer bad-token",
			verifier: &mockVerifier{
				VerifyFunc: func(ctx context.Context, token string) (*identity.Identity, error) {
					return nil, errors.New("signature mismatch")
				},
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "valid token stores the identity id in context",
			authHeader: "Bearer good-token",
			verifier: &mockVerifier{
				VerifyFunc: func(ctx context.Context, token string) (*identity.Identity, error) {
					return &identity.Identity{ID: "id-1", Email: "taro@example.com"}, nil
				},
			},
			wantStatus: http.StatusOK,
			wantBody:   "id-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupProtected(tt.verifier)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(header string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/logout", nil)
		if header != "" {
			c.Request.Header.Set("Authorization", header)
		}
		return c
	}

	assert.Equal(t, "abc", identity.BearerToken(newCtx("Bearer abc")))
	assert.Equal(t, "", identity.BearerToken(newCtx("")))
	assert.Equal(t, "", identity.BearerToken(newCtx("Basic abc")))
}

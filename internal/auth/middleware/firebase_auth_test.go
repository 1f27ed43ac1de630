package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeVerifier map[string]*auth.Token

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := f[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("token has expired")
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier := fakeVerifier{
		"good": {UID: "u1", Claims: map[string]interface{}{"email": "ada@example.com"}},
	}

	r := gin.New()
	r.Use(FirebaseAuthMiddleware(verifier))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("firebase_uid")+" "+c.GetString("email"))
	})

	cases := map[string]struct {
		header string
		code   int
		body   string
	}{
		"valid token":   {"Bearer good", http.StatusOK, "u1 ada@example.com"},
		"missing":       {"", http.StatusUnauthorized, "missing authorization token"},
		"wrong scheme":  {"Basic good", http.StatusUnauthorized, "missing authorization token"},
		"invalid token": {"Bearer bad", http.StatusUnauthorized, "invalid token"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
			assert.Contains(t, w.Body.String(), tc.body)
		})
	}
}

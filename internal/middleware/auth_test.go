package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"curriculum/internal/domain/models"
	"curriculum/internal/httputil"
)

type fakeVerifier struct {
	tokens map[string]string // token -> subject
}

func (f *fakeVerifier) VerifyToken(token string) (*models.UserClaims, error) {
	sub, ok := f.tokens[token]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &models.UserClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}, nil
}

func (f *fakeVerifier) Close() error { return nil }

func echoUser(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(httputil.GetUserID(r)))
}

func TestAuthMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := AuthMiddleware(&fakeVerifier{tokens: map[string]string{"good": "user-1"}}, logger)(http.HandlerFunc(echoUser))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK, wantBody: "user-1"},
		{name: "no header", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer  ", wantStatus: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/courses", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("user id = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	h := DevAuthMiddleware("dev-user")(http.HandlerFunc(echoUser))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Body.String() != "dev-user" {
		t.Errorf("user id = %q, want dev-user", rec.Body.String())
	}
}

func TestRecoveryAndRequestLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	panics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := RequestLogger(logger)(Recovery(logger)(panics))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

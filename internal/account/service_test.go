package account_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"tripdesk/internal/account"
	"tripdesk/internal/auth"
	"tripdesk/internal/gateway"
	"tripdesk/pkg/credstore"
	"tripdesk/pkg/logger"
)

func signedToken(t *testing.T, email string) string {
	t.Helper()
	claims := auth.Claims{
		UserID: "u-1",
		Email:  email,
		Type:   "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func newService(t *testing.T, handler http.HandlerFunc) (*account.Service, *auth.Context) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	authCtx := auth.NewContext(credstore.NewMemory(), nil, logger.Discard())
	gw := gateway.New(srv.URL+"/api", authCtx, logger.Discard())
	return account.NewService(gw, authCtx, logger.Discard()), authCtx
}

func TestLogin_StoresToken(t *testing.T) {
	token := signedToken(t, "traveler@tripdesk.dev")
	var got account.LoginRequest
	svc, authCtx := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]string{"token": token})
	})
	ctx := context.Background()

	session, err := svc.Login(ctx, " traveler@tripdesk.dev ", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "traveler@tripdesk.dev" || got.Password != "secret" {
		t.Errorf("unexpected login body %+v", got)
	}
	if authCtx.Credential(ctx) != token {
		t.Error("expected token persisted")
	}
	if session.Claims == nil || session.Claims.Email != "traveler@tripdesk.dev" {
		t.Errorf("expected decoded claims, got %+v", session.Claims)
	}

	claims, err := svc.WhoAmI(ctx)
	if err != nil || claims.UserID != "u-1" {
		t.Errorf("whoami: %+v, %v", claims, err)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.WhoAmI(ctx); !errors.Is(err, auth.ErrNoCredential) {
		t.Errorf("expected ErrNoCredential after logout, got %v", err)
	}
}

func TestLogin_OpaqueToken(t *testing.T) {
	svc, authCtx := newService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"opaque"}`))
	})

	session, err := svc.Login(context.Background(), "a@b.co", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Claims != nil {
		t.Errorf("expected no claims for opaque token, got %+v", session.Claims)
	}
	if authCtx.Credential(context.Background()) != "opaque" {
		t.Error("expected opaque token stored")
	}
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		status   int
		body     string
		wantErr  error
		noServer bool
	}{
		{name: "invalid email", email: "nope", noServer: true},
		{name: "empty token", email: "a@b.co", status: http.StatusOK, body: `{}`, wantErr: account.ErrEmptyToken},
		{name: "rejected", email: "a@b.co", status: http.StatusBadRequest, body: `{"error":"Invalid credentials"}`, wantErr: gateway.ErrStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc, authCtx := newService(t, func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := svc.Login(context.Background(), tt.email, "pw")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.noServer && called {
				t.Error("invalid request must not reach the server")
			}
			if authCtx.Credential(context.Background()) != "" {
				t.Error("no credential may be stored on failure")
			}
		})
	}
}

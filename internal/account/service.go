// Package account signs the traveler in and out of the travel API.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"tripdesk/internal/auth"
	"tripdesk/internal/gateway"
	"tripdesk/pkg/logger"
)

// LoginPath exchanges credentials for a bearer token
const LoginPath = "/auth/login"

var ErrEmptyToken = errors.New("login response carried no token")

// Gateway is the part of the gateway client login needs
type Gateway interface {
	Post(ctx context.Context, path string, body any) (*gateway.Response, error)
}

// LoginRequest is the POST /auth/login body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Session describes the signed-in traveler. Claims is nil when the token is
// opaque to the client.
type Session struct {
	Token  string
	Claims *auth.Claims
}

type Service struct {
	gw       Gateway
	auth     *auth.Context
	validate *validator.Validate
	logger   *logger.Logger
}

func NewService(gw Gateway, authCtx *auth.Context, log *logger.Logger) *Service {
	if log == nil {
		log = logger.GetDefault()
	}
	return &Service{
		gw:       gw,
		auth:     authCtx,
		validate: validator.New(),
		logger:   log,
	}
}

// Login posts the credentials and persists the returned token
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	req := LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid login request: %w", err)
	}

	resp, err := s.gw.Post(ctx, LoginPath, req)
	if err != nil {
		return nil, err
	}

	var body loginResponse
	if err := resp.Decode(&body); err != nil {
		return nil, err
	}
	if body.Token == "" {
		return nil, ErrEmptyToken
	}

	if err := s.auth.SetCredential(ctx, body.Token); err != nil {
		return nil, err
	}

	session := &Session{Token: body.Token}
	if claims, err := auth.ParseClaims(body.Token); err == nil {
		session.Claims = claims
	} else {
		s.logger.DebugContext(ctx, "Token is not a readable JWT", "error", err)
	}

	s.logger.InfoContext(ctx, "Signed in", "email", req.Email)
	return session, nil
}

// Logout forgets the stored credential
func (s *Service) Logout(ctx context.Context) error {
	return s.auth.Clear(ctx)
}

// WhoAmI decodes the stored credential
func (s *Service) WhoAmI(ctx context.Context) (*auth.Claims, error) {
	return s.auth.Claims(ctx)
}

package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/partydeck/partydeck-server/internal/service"
)

const (
	msgLoginSuccessful  = "Login successful"
	msgLogoutSuccessful = "Logout successful"
	msgPasswordUpdated  = "Password updated successfully"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "login",
		Method:        http.MethodPost,
		Path:          "/api/auth/login",
		Summary:       "Login",
		Description:   "Authenticates an admin and returns a session token",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusOK,
		Middlewares:   huma.Middlewares{s.loginRateLimit},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodPost,
		Path:          "/api/auth/logout",
		Summary:       "Logout",
		Description:   "Revokes the session token. Succeeds even if the token is unknown",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusOK,
		Security:      bearerSecurity,
	}, s.handleLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentAdmin",
		Method:      http.MethodGet,
		Path:        "/api/auth/me",
		Summary:     "Current admin",
		Description: "Returns the admin owning the session token",
		Tags:        []string{"Auth"},
		Security:    bearerSecurity,
	}, s.handleGetCurrentAdmin)

	huma.Register(s.api, huma.Operation{
		OperationID:   "changePassword",
		Method:        http.MethodPut,
		Path:          "/api/admin/settings/password",
		Summary:       "Change password",
		Description:   "Changes the signed-in admin's password and revokes their other sessions",
		Tags:          []string{"Settings"},
		DefaultStatus: http.StatusOK,
		Security:      bearerSecurity,
	}, s.handleChangePassword)
}

// === DTOs ===

// LoginInput contains admin credentials.
type LoginInput struct {
	Body service.LoginRequest
}

// LoginOutput contains the session token.
type LoginOutput struct {
	Body messageData[*service.LoginResult]
}

// MessageOutput is a response carrying only an envelope message.
type MessageOutput struct {
	Body MessageBody
}

// AdminOutput contains the current admin.
type AdminOutput struct {
	Body service.AdminSummary
}

// ChangePasswordInput contains the current and new password.
type ChangePasswordInput struct {
	Body service.ChangePasswordRequest
}

// === Handlers ===

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	result, err := s.services.Auth.Login(ctx, input.Body, getClientIPFromContext(ctx))
	if err != nil {
		return nil, err
	}
	return &LoginOutput{Body: withMessage(msgLoginSuccessful, result)}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	if err := s.services.Auth.Logout(ctx, getToken(ctx)); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: Message(msgLogoutSuccessful)}, nil
}

func (s *Server) handleGetCurrentAdmin(ctx context.Context, _ *struct{}) (*AdminOutput, error) {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminOutput{Body: service.AdminSummary{ID: admin.ID, Username: admin.Username}}, nil
}

func (s *Server) handleChangePassword(ctx context.Context, input *ChangePasswordInput) (*MessageOutput, error) {
	admin, err := s.requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Auth.ChangePassword(ctx, admin.ID, getToken(ctx), input.Body); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: Message(msgPasswordUpdated)}, nil
}

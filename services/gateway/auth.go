package gateway

import (
	"context"
	"net/http"

	"github.com/darasa/darasa-client/core/session"
)

var _ session.API = (*Gateway)(nil)

func (gw *Gateway) Register(ctx context.Context, data session.RegisterData) (session.AuthResponse, error) {
	var out session.AuthResponse
	err := gw.do(ctx, http.MethodPost, "/auth/register", data, &out)
	return out, err
}

func (gw *Gateway) Login(ctx context.Context, data session.LoginData) (session.AuthResponse, error) {
	var out session.AuthResponse
	err := gw.do(ctx, http.MethodPost, "/auth/login", data, &out)
	return out, err
}

// Refresh resumes a prior session; continuity rides on the refresh cookie
// the transport sends along.
func (gw *Gateway) Refresh(ctx context.Context) (session.AuthResponse, error) {
	var out session.AuthResponse
	err := gw.do(ctx, http.MethodPost, "/auth/refresh", nil, &out)
	return out, err
}

func (gw *Gateway) Logout(ctx context.Context) error {
	return gw.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (gw *Gateway) UpgradeToInstructor(ctx context.Context) (session.AuthResponse, error) {
	var out session.AuthResponse
	err := gw.do(ctx, http.MethodPost, "/auth/instructor", nil, &out)
	return out, err
}

func (gw *Gateway) CurrentUser(ctx context.Context) (session.User, error) {
	var out session.User
	err := gw.do(ctx, http.MethodGet, "/auth/me", nil, &out)
	return out, err
}

package apiclient

import (
	"context"
	"net/http"

	"github.com/whimsyboard/whimsy/shared/api"
	"github.com/whimsyboard/whimsy/shared/domain"
	internal_errors "github.com/whimsyboard/whimsy/shared/errors"
)

// Register creates an account. The user logs in separately afterwards.
func (c *APIClient) Register(ctx context.Context, email domain.Email, password domain.Password) error {
	return c.call(ctx, "register", http.MethodPost, "/api/auth/register", "",
		api.RegisterRequest{Email: email, Password: password}, nil)
}

// Login exchanges credentials for the bearer token used by every other call.
func (c *APIClient) Login(ctx context.Context, email domain.Email, password domain.Password) (domain.Token, error) {
	var response api.LoginResponse
	err := c.call(ctx, "login", http.MethodPost, "/api/auth/login", "",
		api.LoginRequest{Email: email, Password: password}, &response)
	if err != nil {
		return "", err
	}
	if response.Token == "" {
		return "", internal_errors.New("login response carried no token", http.StatusBadGateway)
	}
	return response.Token, nil
}

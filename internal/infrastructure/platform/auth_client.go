package platform

import (
	"context"
	"net/http"

	"github.com/arenaplay/wallet-core/internal/core/domain"
	"github.com/arenaplay/wallet-core/internal/core/ports"
)

// AuthClient implements ports.AuthAPI against the platform auth endpoints.
type AuthClient struct {
	client *Client
}

func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type registerRequest struct {
	Name            string `json:"name"`
	Identifier      string `json:"identifier"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type authPayload struct {
	Token string          `json:"token"`
	User  *domain.Profile `json:"user"`
}

func (a *AuthClient) Login(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
	var payload authPayload
	_, err := a.client.do(ctx, http.MethodPost, "/auth/login", loginRequest{
		Identifier: creds.Identifier,
		Password:   creds.Secret,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: payload.Token, User: payload.User}, nil
}

func (a *AuthClient) Register(ctx context.Context, reg ports.Registration) (*ports.AuthResult, error) {
	var payload authPayload
	_, err := a.client.do(ctx, http.MethodPost, "/auth/register", registerRequest{
		Name:            reg.Name,
		Identifier:      reg.Identifier,
		Password:        reg.Secret,
		ConfirmPassword: reg.ConfirmSecret,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: payload.Token, User: payload.User}, nil
}

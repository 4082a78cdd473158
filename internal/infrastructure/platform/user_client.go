package platform

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/arenaplay/wallet-core/internal/core/domain"
)

// UserClient implements ports.UserAPI against the platform profile endpoint.
type UserClient struct {
	client *Client
}

func NewUserClient(client *Client) *UserClient {
	return &UserClient{client: client}
}

// profilePayload picks the tournament block out of the full profile response;
// the rest of the profile is owned by SessionManager, not the wallet view.
type profilePayload struct {
	Tournament struct {
		Earnings          decimal.Decimal `json:"earnings"`
		ParticipatedCount int             `json:"participated_count"`
		Wins              int             `json:"wins"`
	} `json:"tournament"`
}

func (u *UserClient) WalletStats(ctx context.Context) (*domain.WalletStats, error) {
	var payload profilePayload
	if _, err := u.client.do(ctx, http.MethodGet, "/users/profile", nil, &payload); err != nil {
		return nil, err
	}
	return &domain.WalletStats{
		TotalWinnings:     payload.Tournament.Earnings,
		TournamentsJoined: payload.Tournament.ParticipatedCount,
		TournamentsWon:    payload.Tournament.Wins,
	}, nil
}

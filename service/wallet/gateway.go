package wallet

import (
	"context"
	"fmt"

	"stellend/core"
	"stellend/pkg/resthttp"

	"github.com/shopspring/decimal"
)

type gateway struct {
	endpoint string
}

// NewGateway token gateway over the custody http api
func NewGateway(endpoint string) core.TokenGateway {
	return &gateway{endpoint: endpoint}
}

type transferRequest struct {
	UserID string          `json:"user_id"`
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
	Memo   string          `json:"memo,omitempty"`
}

func (g *gateway) Pull(ctx context.Context, userID, asset string, amount decimal.Decimal, memo string) error {
	return g.post(ctx, "pull", userID, asset, amount, memo)
}

func (g *gateway) Push(ctx context.Context, userID, asset string, amount decimal.Decimal, memo string) error {
	return g.post(ctx, "push", userID, asset, amount, memo)
}

func (g *gateway) post(ctx context.Context, action, userID, asset string, amount decimal.Decimal, memo string) error {
	url := fmt.Sprintf("%s/api/transfers/%s", g.endpoint, action)

	body := transferRequest{
		UserID: userID,
		Asset:  asset,
		Amount: amount,
		Memo:   memo,
	}

	_, err := resthttp.Execute(resthttp.Request(ctx), "POST", url, body, nil)
	return err
}

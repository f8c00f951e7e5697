package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"tmgear/internal/domain/model"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

var ErrOrderRejected = errors.New("order rejected")

const placeOrderPath = "/orders/place"

type OrderClient struct {
	*Client
	cb *gobreaker.CircuitBreaker[struct{}]
}

func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{
		Client: c,
		cb:     newBreaker[struct{}]("orders", c.log),
	}
}

// Place は注文を1件送る。200/201以外はすべて失敗扱い。
func (c *OrderClient) Place(ctx context.Context, order model.OrderRequest, idempotencyKey string) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	_, err = c.cb.Execute(func() (struct{}, error) {
		return struct{}{}, c.post(ctx, payload, idempotencyKey)
	})
	if err != nil {
		if IsUnavailable(err) {
			return fmt.Errorf("order service unavailable: %w", err)
		}
		return err
	}
	return nil
}

func (c *OrderClient) post(ctx context.Context, payload []byte, idempotencyKey string) error {
	req, err := c.newRequest(ctx, http.MethodPost, placeOrderPath, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Idempotency-Key", idempotencyKey)

	code, body, err := c.do(req)
	if err != nil {
		return err
	}

	switch code {
	case http.StatusOK, http.StatusCreated:
		c.log.Debug("order placed", zap.String("idempotency_key", idempotencyKey), zap.Int("status", code))
		return nil
	default:
		return fmt.Errorf("%w: %w", ErrOrderRejected, newStatusError(code, body))
	}
}

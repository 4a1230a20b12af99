package mercadopago

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nicolasdelfino-123/vape-store/pkg/gateway/domain/model"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
	}
}

func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*model.PaymentRecord, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build payment lookup request")
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(model.ErrGatewayUnavailable, err.Error())
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, model.ErrPaymentNotFound
	default:
		return nil, errors.Wrapf(model.ErrGatewayUnavailable, "unexpected status %d", resp.StatusCode)
	}

	var record model.PaymentRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, errors.Wrap(err, "decode payment response")
	}
	return &record, nil
}

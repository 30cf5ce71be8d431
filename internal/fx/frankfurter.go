package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hyunwoo-p/tripbudget/internal/domain"
)

// DefaultBaseURL is the public Frankfurter API endpoint.
const DefaultBaseURL = "https://api.frankfurter.app"

// providerName identifies Frankfurter in Expense.RateSource and audit lines.
const providerName = "frankfurter"

// Client is the Frankfurter implementation of Converter.
//
// Frankfurter's /latest endpoint accepts an amount and returns the converted
// total under rates[<to>]. The effective rate is always computed here as
// converted/amount rather than read from the response, so the client stays
// correct against providers that only return converted totals.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient constructs a Frankfurter client against baseURL with a fixed
// per-call timeout. Pass DefaultBaseURL outside of tests.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// frankfurterResponse is the subset of the /latest payload this client reads.
type frankfurterResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// Convert asks Frankfurter to convert amount from one currency to another.
// Every failure wraps ErrUnreachable or ErrRateUnavailable; no error from the
// transport or decoder escapes unclassified.
func (c *Client) Convert(ctx context.Context, amount float64, from, to string) (domain.Conversion, error) {
	if amount <= 0 {
		return domain.Conversion{}, fmt.Errorf("%w: amount must be positive, got %v", ErrRateUnavailable, amount)
	}
	if from == "" || to == "" {
		return domain.Conversion{}, fmt.Errorf("%w: currency codes must be non-empty", ErrRateUnavailable)
	}

	// Frankfurter rejects from == to; the identity conversion needs no call.
	if from == to {
		return domain.Conversion{
			HomeAmount: amount,
			Rate:       1,
			Provider:   providerName,
			Timestamp:  time.Now().UTC(),
		}, nil
	}

	q := url.Values{}
	q.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	q.Set("from", from)
	q.Set("to", to)
	reqURL := c.baseURL + "/latest?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Conversion{}, fmt.Errorf("%w: build request: %v", ErrUnreachable, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return domain.Conversion{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Conversion{}, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}

	var body frankfurterResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Conversion{}, fmt.Errorf("%w: decode response: %v", ErrRateUnavailable, err)
	}

	converted, ok := body.Rates[to]
	if !ok {
		return domain.Conversion{}, fmt.Errorf("%w: no %s rate in response", ErrRateUnavailable, to)
	}
	if converted <= 0 {
		return domain.Conversion{}, fmt.Errorf("%w: non-positive converted amount %v", ErrRateUnavailable, converted)
	}

	return domain.Conversion{
		HomeAmount: converted,
		Rate:       converted / amount,
		Provider:   providerName,
		Timestamp:  time.Now().UTC(),
	}, nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	userAgentHeader = "User-Agent"
	clientUserAgent = "billing-cli/0.1"

	generateBillPath = "/api/generate-bill"
	billPath         = "/api/bill/"
	previewPath      = "/preview/"
	purchasesPath    = "/purchases"
)

// BillingClient is a REST client for the remote bill generation service. It
// only prepares requests and interprets replies; all bill computation happens
// on the server.
type BillingClient struct {
	addr url.URL
	hc   *http.Client
}

func New(addr string) (*BillingClient, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid billing service url %q: %w", addr, err)
	}
	return &BillingClient{addr: *u, hc: &http.Client{}}, nil
}

/*
GenerateBill submits a bill request and returns the generated bill reference.
A non-2xx reply is returned as *APIError; any other error means the request
could not be completed at all.
*/
func (c *BillingClient) GenerateBill(ctx context.Context, req *CreateBillRequest) (*GenerateBillResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding bill request: %w", err)
	}

	u := c.addr
	u.Path = generateBillPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(userAgentHeader, clientUserAgent)

	rsp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if rsp.StatusCode < http.StatusOK || rsp.StatusCode >= http.StatusMultipleChoices {
		return nil, apiError(rsp.StatusCode, data)
	}

	res := &GenerateBillResponse{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}
	return res, nil
}

// GetBill fetches the stored bill with the given id.
func (c *BillingClient) GetBill(ctx context.Context, billID string) (*BillDetails, error) {
	u := c.addr
	u.Path = billPath + billID

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set(userAgentHeader, clientUserAgent)

	rsp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if rsp.StatusCode != http.StatusOK {
		return nil, apiError(rsp.StatusCode, data)
	}

	details := &BillDetails{}
	if err := json.Unmarshal(data, details); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}
	return details, nil
}

// PreviewURL returns the preview page address for a generated bill.
func (c *BillingClient) PreviewURL(billID, email string) string {
	u := c.addr
	u.Path = previewPath + billID
	u.RawQuery = "email=" + url.QueryEscape(email)
	return u.String()
}

// PurchasesURL returns the purchase history page address for a customer.
func (c *BillingClient) PurchasesURL(email string) string {
	u := c.addr
	u.Path = purchasesPath
	u.RawQuery = "email=" + url.QueryEscape(email)
	return u.String()
}

// apiError maps a non-2xx reply to *APIError, preferring the "detail" field
// of the body and falling back to the raw body.
func apiError(statusCode int, body []byte) error {
	var reply struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &reply); err == nil && reply.Detail != "" {
		return &APIError{StatusCode: statusCode, Detail: reply.Detail}
	}
	return &APIError{StatusCode: statusCode, Detail: strings.TrimSpace(string(body))}
}

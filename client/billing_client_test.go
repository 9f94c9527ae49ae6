package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockRoundTripper struct {
	do func(req *http.Request) (*http.Response, error)
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.do(req)
}

func newMockClient(t *testing.T, rt *mockRoundTripper) *BillingClient {
	c, err := New("http://localhost:8000")
	require.NoError(t, err)
	c.hc.Transport = rt
	return c
}

func httpResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func TestNew_InvalidUrl(t *testing.T) {
	_, err := New("http://local host")
	require.ErrorContains(t, err, "invalid billing service url")
}

func TestGenerateBill(t *testing.T) {
	billReq := &CreateBillRequest{
		CustomerEmail: "a@b.com",
		Items:         []BillItem{{ProductCode: "P001", Quantity: 2}},
		Denominations: []Denomination{{Value: 500, Count: 1}},
		PaidAmount:    100,
	}

	t.Run("request wire format", func(t *testing.T) {
		var captured *http.Request
		var capturedBody []byte
		c := newMockClient(t, &mockRoundTripper{
			do: func(req *http.Request) (*http.Response, error) {
				captured = req
				var err error
				capturedBody, err = io.ReadAll(req.Body)
				require.NoError(t, err)
				return httpResponse(http.StatusOK, `{"bill_id": 1, "customer_email": "a@b.com"}`), nil
			},
		})

		rsp, err := c.GenerateBill(context.Background(), billReq)
		require.NoError(t, err)
		require.EqualValues(t, "1", rsp.BillID)

		require.Equal(t, http.MethodPost, captured.Method)
		require.Equal(t, "http://localhost:8000/api/generate-bill", captured.URL.String())
		require.Equal(t, "application/json", captured.Header.Get("Content-Type"))
		require.Equal(t, clientUserAgent, captured.Header.Get("User-Agent"))
		require.JSONEq(t, `{
			"customer_email": "a@b.com",
			"items": [{"product_code": "P001", "quantity": 2}],
			"denominations": [{"value": 500, "count": 1}],
			"paid_amount": 100
		}`, string(capturedBody))
	})

	t.Run("rejection with detail", func(t *testing.T) {
		c := newMockClient(t, &mockRoundTripper{
			do: func(_ *http.Request) (*http.Response, error) {
				return httpResponse(http.StatusBadRequest, `{"detail": "Insufficient stock"}`), nil
			},
		})

		_, err := c.GenerateBill(context.Background(), billReq)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, "Insufficient stock", apiErr.Detail)
		require.EqualError(t, err, "billing service returned status 400: Insufficient stock")
	})

	t.Run("rejection without detail falls back to raw body", func(t *testing.T) {
		c := newMockClient(t, &mockRoundTripper{
			do: func(_ *http.Request) (*http.Response, error) {
				return httpResponse(http.StatusInternalServerError, "Internal Server Error\n"), nil
			},
		})

		_, err := c.GenerateBill(context.Background(), billReq)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "Internal Server Error", apiErr.Detail)
	})

	t.Run("transport error", func(t *testing.T) {
		c := newMockClient(t, &mockRoundTripper{
			do: func(_ *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		})

		_, err := c.GenerateBill(context.Background(), billReq)
		require.ErrorContains(t, err, "connection refused")
		var apiErr *APIError
		require.False(t, errors.As(err, &apiErr))
	})

	t.Run("malformed success body", func(t *testing.T) {
		c := newMockClient(t, &mockRoundTripper{
			do: func(_ *http.Request) (*http.Response, error) {
				return httpResponse(http.StatusOK, "{not json"), nil
			},
		})

		_, err := c.GenerateBill(context.Background(), billReq)
		require.ErrorContains(t, err, "decoding response body")
	})
}

func TestGetBill(t *testing.T) {
	c := newMockClient(t, &mockRoundTripper{
		do: func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Equal(t, "http://localhost:8000/api/bill/12", req.URL.String())
			return httpResponse(http.StatusOK, `{
				"bill": {"id": 12, "customer_email": "a@b.com", "total_with_tax": "118.00"},
				"items": [{"product_id": 3, "product_name": "Widget", "quantity": 2, "unit_price": "50.00", "tax_percentage": "18.00", "line_total": "100.00"}]
			}`), nil
		},
	})

	details, err := c.GetBill(context.Background(), "12")
	require.NoError(t, err)
	require.EqualValues(t, "12", details.Bill.ID)
	require.Equal(t, "118.00", details.Bill.TotalWithTax)
	require.Len(t, details.Items, 1)
	require.NotNil(t, details.Items[0].ProductName)
	require.Equal(t, "Widget", *details.Items[0].ProductName)
}

func TestGetBill_NotFound(t *testing.T) {
	c := newMockClient(t, &mockRoundTripper{
		do: func(_ *http.Request) (*http.Response, error) {
			return httpResponse(http.StatusNotFound, `{"detail": "Bill not found"}`), nil
		},
	})

	_, err := c.GetBill(context.Background(), "999")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "Bill not found", apiErr.Detail)
}

func TestPageURLs(t *testing.T) {
	c, err := New("http://localhost:8000")
	require.NoError(t, err)

	require.Equal(t, "http://localhost:8000/preview/B1?email=a%40b.com", c.PreviewURL("B1", "a@b.com"))
	require.Equal(t, "http://localhost:8000/purchases?email=a%40b.com", c.PurchasesURL("a@b.com"))
}

func TestBillID_UnmarshalJSON(t *testing.T) {
	var rsp GenerateBillResponse
	require.NoError(t, json.Unmarshal([]byte(`{"bill_id": 42}`), &rsp))
	require.EqualValues(t, "42", rsp.BillID)

	require.NoError(t, json.Unmarshal([]byte(`{"bill_id": "abc-1"}`), &rsp))
	require.EqualValues(t, "abc-1", rsp.BillID)

	require.Error(t, json.Unmarshal([]byte(`{"bill_id": true}`), &rsp))
}

package submitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/suryaGMB/billing-fastapi/billing/form"
	"github.com/suryaGMB/billing-fastapi/billing/presenter"
	"github.com/suryaGMB/billing-fastapi/billing/validation"
	"github.com/suryaGMB/billing-fastapi/client"
	"github.com/suryaGMB/billing-fastapi/util"
)

const DefaultTimeout = 30 * time.Second

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission has not resolved yet.
var ErrSubmissionInFlight = errors.New("a bill submission is already in progress")

type (
	// BillingAPI is the slice of the billing service client the submitter
	// needs.
	BillingAPI interface {
		GenerateBill(ctx context.Context, req *client.CreateBillRequest) (*client.GenerateBillResponse, error)
		PreviewURL(billID, email string) string
	}

	// Navigator receives the terminal navigation action of a successful
	// submission. Once invoked, nothing further happens with the form.
	Navigator interface {
		Navigate(url string)
	}

	// Result describes a confirmed submission.
	Result struct {
		BillID              string
		CustomerEmail       string
		PreviewURL          string
		ChangeDistribution  map[string]int64
		RemainderUnreturned string
	}

	// Submitter turns a validated form snapshot into a bill request, submits
	// it and routes the outcome: navigation on success, rendered failure
	// otherwise. At most one submission runs at a time; re-entrant calls are
	// rejected until the running one resolves.
	Submitter struct {
		api     BillingAPI
		out     *presenter.Presenter
		nav     Navigator
		timeout time.Duration
		log     *slog.Logger

		submitting atomic.Bool
	}
)

func New(api BillingAPI, out *presenter.Presenter, nav Navigator, timeout time.Duration, log *slog.Logger) *Submitter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Submitter{api: api, out: out, nav: nav, timeout: timeout, log: log}
}

/*
Submit performs one submission attempt for a snapshot that already passed
validation. The flow is: build request, show the transient processing state,
POST with a bounded wait, then either navigate to the bill preview or render
the failure. The returned error is the underlying submission error; the
operator facing message has already been rendered when it is non-nil.
*/
func (s *Submitter) Submit(ctx context.Context, snapshot form.Snapshot) (*Result, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer s.submitting.Store(false)

	req, err := BuildRequest(snapshot)
	if err != nil {
		return nil, err
	}

	s.out.ShowResult("Processing...")
	s.log.InfoContext(ctx, "submitting bill request",
		slog.String("customer_email", req.CustomerEmail),
		slog.Int("items", len(req.Items)),
		slog.Float64("paid_amount", req.PaidAmount))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rsp, err := s.api.GenerateBill(ctx, req)
	if err != nil {
		s.renderFailure(ctx, err)
		return nil, err
	}

	email := rsp.CustomerEmail
	if email == "" {
		email = req.CustomerEmail
	}
	res := &Result{
		BillID:              rsp.BillID.String(),
		CustomerEmail:       email,
		PreviewURL:          s.api.PreviewURL(rsp.BillID.String(), email),
		ChangeDistribution:  rsp.ChangeDistribution,
		RemainderUnreturned: rsp.RemainderUnreturned,
	}
	s.log.InfoContext(ctx, "bill generated", slog.String("bill_id", res.BillID))
	s.nav.Navigate(res.PreviewURL)
	return res, nil
}

func (s *Submitter) renderFailure(ctx context.Context, err error) {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		s.log.WarnContext(ctx, "bill request rejected", slog.Int("status", apiErr.StatusCode))
		s.out.ShowResult("Error: " + apiErr.Detail)
	case errors.Is(err, context.DeadlineExceeded):
		s.log.WarnContext(ctx, "bill request timed out", slog.Duration("timeout", s.timeout))
		s.out.ShowResult(fmt.Sprintf("Network error: request timed out after %s", s.timeout))
	default:
		s.log.WarnContext(ctx, "bill request failed", slog.Any("err", err))
		s.out.ShowResult("Network error: " + err.Error())
	}
}

// BuildRequest maps a validated snapshot to the wire payload: trimmed email,
// eligible rows in entry order, every denomination entry, paid amount rounded
// to 2 decimal places.
func BuildRequest(snapshot form.Snapshot) (*client.CreateBillRequest, error) {
	eligible := util.FilterSlice(snapshot.Rows, form.LineItemRow.Eligible)
	if len(eligible) == 0 {
		return nil, errors.New("snapshot has no eligible product rows, it has not been validated")
	}
	paid, err := validation.PaidAmount(snapshot.PaidAmountRaw)
	if err != nil {
		return nil, fmt.Errorf("snapshot has invalid paid amount, it has not been validated: %w", err)
	}

	req := &client.CreateBillRequest{
		CustomerEmail: strings.TrimSpace(snapshot.Email),
		Items:         make([]client.BillItem, 0, len(eligible)),
		Denominations: make([]client.Denomination, 0, len(snapshot.Denominations)),
		PaidAmount:    paid.Round(2).InexactFloat64(),
	}
	for _, row := range eligible {
		req.Items = append(req.Items, client.BillItem{ProductCode: strings.TrimSpace(row.ProductCode), Quantity: row.Quantity})
	}
	for _, d := range snapshot.Denominations {
		req.Denominations = append(req.Denominations, client.Denomination{Value: d.Value, Count: d.Count})
	}
	return req, nil
}

// ConsoleNavigator hands the target address to the operator, the closest a
// terminal gets to a browser redirect.
type ConsoleNavigator struct {
	Console presenter.Console
}

func (n ConsoleNavigator) Navigate(url string) {
	n.Console.Println("Opening " + url)
}

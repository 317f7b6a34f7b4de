// Package zenmoney is a small client for the ZenMoney v8 API: the diff
// endpoint used to read and write data, and the suggest endpoint.
package zenmoney

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/fintszen/pkg/models"
)

// DefaultURL is the public API endpoint.
const DefaultURL = "https://api.zenmoney.ru"

func init() {
	// The API expects amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// APIError is returned for every non-2xx response. Body keeps the raw
// response for diagnostics.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("zenmoney %s: status %d: %s", e.Endpoint, e.StatusCode, strings.TrimSpace(string(e.Body)))
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

func New(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultURL,
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DiffRequest asks for every change since ServerTimestamp and pushes the
// listed transactions.
type DiffRequest struct {
	CurrentClientTimestamp int64               `json:"currentClientTimestamp"`
	ServerTimestamp        int64               `json:"serverTimestamp"`
	ForceFetch             []string            `json:"forceFetch,omitempty"`
	Transaction            []models.Submission `json:"transaction,omitempty"`
}

type DiffResponse struct {
	ServerTimestamp int64         `json:"serverTimestamp"`
	Instrument      []Instrument  `json:"instrument"`
	Account         []Account     `json:"account"`
	User            []User        `json:"user"`
	Transaction     []Transaction `json:"transaction"`
}

type Instrument struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	ShortTitle string `json:"shortTitle"`
	Symbol     string `json:"symbol"`
}

type Account struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	Instrument *int   `json:"instrument"`
	Archive    bool   `json:"archive"`
}

type User struct {
	ID    int     `json:"id"`
	Login *string `json:"login"`
}

type Transaction struct {
	ID                string          `json:"id"`
	User              int             `json:"user"`
	Date              string          `json:"date"`
	Income            decimal.Decimal `json:"income"`
	IncomeAccount     string          `json:"incomeAccount"`
	IncomeInstrument  int             `json:"incomeInstrument"`
	Outcome           decimal.Decimal `json:"outcome"`
	OutcomeAccount    string          `json:"outcomeAccount"`
	OutcomeInstrument int             `json:"outcomeInstrument"`
	Payee             *string         `json:"payee"`
	OriginalPayee     *string         `json:"originalPayee"`
	Comment           *string         `json:"comment"`
	Deleted           bool            `json:"deleted"`
}

// Record converts the wire transaction into a ledger record.
func (t Transaction) Record() (models.LedgerRecord, error) {
	date, err := time.Parse(models.DateLayout, t.Date)
	if err != nil {
		return models.LedgerRecord{}, fmt.Errorf("transaction %s: invalid date %q: %w", t.ID, t.Date, err)
	}
	return models.LedgerRecord{
		ID:                t.ID,
		Date:              date,
		Income:            t.Income,
		IncomeAccount:     t.IncomeAccount,
		IncomeInstrument:  t.IncomeInstrument,
		Outcome:           t.Outcome,
		OutcomeAccount:    t.OutcomeAccount,
		OutcomeInstrument: t.OutcomeInstrument,
		Payee:             deref(t.Payee),
		OriginalPayee:     deref(t.OriginalPayee),
		Comment:           deref(t.Comment),
		Deleted:           t.Deleted,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Diff calls the diff endpoint.
func (c *Client) Diff(ctx context.Context, req DiffRequest) (*DiffResponse, error) {
	var resp DiffResponse
	if err := c.post(ctx, "/v8/diff/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Suggest asks the API to enrich the transactions with payees, merchants
// and tags.
func (c *Client) Suggest(ctx context.Context, txs []models.Submission) ([]models.Submission, error) {
	var resp []models.Submission
	if err := c.post(ctx, "/v8/suggest/", txs, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, endpoint string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("zenmoney %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("zenmoney %s: failed to read response: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: data}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("zenmoney %s: failed to decode response: %w", endpoint, err)
	}
	return nil
}

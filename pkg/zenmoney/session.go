package zenmoney

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/fintszen/pkg/models"
)

// Session holds one differential snapshot fetched at open time. Reads are
// served from the snapshot; suggest and submit go to the API.
type Session struct {
	client *Client
	logger *log.Logger
	now    func() time.Time

	snapshot    *DiffResponse
	instruments map[int]string
}

// Open fetches everything changed since the given server timestamp,
// always including instruments and the user.
func Open(ctx context.Context, client *Client, since int64, logger *log.Logger) (*Session, error) {
	s := &Session{client: client, logger: logger, now: time.Now}

	snapshot, err := client.Diff(ctx, DiffRequest{
		CurrentClientTimestamp: s.now().Unix(),
		ServerTimestamp:        since,
		ForceFetch:             []string{"instrument", "user"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ledger snapshot: %w", err)
	}
	if len(snapshot.User) == 0 {
		return nil, fmt.Errorf("ledger snapshot has no user")
	}

	s.snapshot = snapshot
	s.instruments = make(map[int]string, len(snapshot.Instrument))
	for _, in := range snapshot.Instrument {
		s.instruments[in.ID] = in.ShortTitle
	}
	logger.Debug("ledger snapshot loaded",
		"server_timestamp", snapshot.ServerTimestamp,
		"accounts", len(snapshot.Account),
		"transactions", len(snapshot.Transaction))
	return s, nil
}

func (s *Session) Accounts(_ context.Context) ([]models.LedgerAccount, error) {
	out := make([]models.LedgerAccount, 0, len(s.snapshot.Account))
	for _, a := range s.snapshot.Account {
		out = append(out, models.LedgerAccount{ID: a.ID, Title: a.Title})
	}
	return out, nil
}

// Transactions returns every snapshot transaction that credits or debits
// the account, deleted ones included.
func (s *Session) Transactions(_ context.Context, accountID string) ([]models.LedgerRecord, error) {
	var out []models.LedgerRecord
	for _, tx := range s.snapshot.Transaction {
		rec, err := tx.Record()
		if err != nil {
			return nil, err
		}
		if rec.Touches(accountID) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Instruments maps instrument IDs to currency codes.
func (s *Session) Instruments() map[int]string {
	return s.instruments
}

// InstrumentID finds the instrument for a currency code.
func (s *Session) InstrumentID(currency string) (int, bool) {
	for id, code := range s.instruments {
		if strings.EqualFold(code, currency) {
			return id, true
		}
	}
	return 0, false
}

// UserID is the owner of the snapshot.
func (s *Session) UserID() int {
	return s.snapshot.User[0].ID
}

func (s *Session) Suggest(ctx context.Context, txs []models.Submission) ([]models.Submission, error) {
	return s.client.Suggest(ctx, txs)
}

// Submit pushes the transactions in one diff.
func (s *Session) Submit(ctx context.Context, txs []models.Submission) error {
	now := s.now().Unix()
	batch := make([]models.Submission, len(txs))
	for i, tx := range txs {
		if tx.Created == 0 {
			tx.Created = now
		}
		tx.Changed = now
		batch[i] = tx
	}

	resp, err := s.client.Diff(ctx, DiffRequest{
		CurrentClientTimestamp: now,
		ServerTimestamp:        now,
		Transaction:            batch,
	})
	if err != nil {
		return err
	}
	s.logger.Debug("ledger diff submitted", "transactions", len(batch), "server_timestamp", resp.ServerTimestamp)
	return nil
}

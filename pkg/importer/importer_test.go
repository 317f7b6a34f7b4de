package importer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/fintszen/pkg/models"
)

type fakeSubmitter struct {
	batches [][]models.Submission
	err     error
}

func (f *fakeSubmitter) Submit(_ context.Context, txs []models.Submission) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, txs)
	return nil
}

type scriptedPrompter struct {
	answers []bool
}

func (p *scriptedPrompter) Confirm(models.Submission) (bool, error) {
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func submissions(ids ...string) []models.Submission {
	out := make([]models.Submission, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Submission{ID: id, Date: "2024-01-01", Outcome: decimal.NewFromInt(1)})
	}
	return out
}

func TestParseMode(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("yolo")
	assert.Error(t, err)
}

func TestImportBulk(t *testing.T) {
	sub := &fakeSubmitter{}
	n, err := New(log.New(io.Discard), ModeBulk, sub, nil).Import(context.Background(), submissions("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, sub.batches, 1)
	assert.Len(t, sub.batches[0], 2)
}

func TestImportSerial(t *testing.T) {
	sub := &fakeSubmitter{}
	prompt := &scriptedPrompter{answers: []bool{true, false, true}}
	n, err := New(log.New(io.Discard), ModeSerial, sub, prompt).Import(context.Background(), submissions("a", "b", "c"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, sub.batches, 2)
	assert.Equal(t, "a", sub.batches[0][0].ID)
	assert.Equal(t, "c", sub.batches[1][0].ID)
}

func TestImportDryRun(t *testing.T) {
	sub := &fakeSubmitter{}
	n, err := New(log.New(io.Discard), ModeDryRun, sub, nil).Import(context.Background(), submissions("a"))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, sub.batches)
}

func TestImportFailureWrapped(t *testing.T) {
	cause := errors.New("rejected")
	sub := &fakeSubmitter{err: cause}
	_, err := New(log.New(io.Discard), ModeBulk, sub, nil).Import(context.Background(), submissions("a"))
	assert.ErrorIs(t, err, ErrSubmission)
	assert.ErrorIs(t, err, cause)
}

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("\n0\nx\n1\n7"), &out)
	tx := submissions("a")[0]

	for _, want := range []bool{true, false, true, true, false} {
		got, err := p.Confirm(tx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Contains(t, out.String(), "1=Yes, 0=No [_1_/0]: ")
	assert.Contains(t, out.String(), "please answer 1 or 0")
}

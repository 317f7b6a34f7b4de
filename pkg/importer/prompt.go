package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yurifrl/fintszen/pkg/models"
)

// LinePrompter asks on out and reads the answer from in. An empty answer
// means yes, end of input means no.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Confirm(tx models.Submission) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s %s %q: 1=Yes, 0=No [_1_/0]: ", tx.Date, describeAmount(tx), tx.Payee)
		line, err := p.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		answer := strings.TrimSpace(line)
		if errors.Is(err, io.EOF) && answer == "" {
			fmt.Fprintln(p.out)
			return false, nil
		}
		if answer == "" {
			return true, nil
		}
		n, convErr := strconv.Atoi(answer)
		if convErr != nil {
			fmt.Fprintf(p.out, "please answer 1 or 0\n")
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			continue
		}
		return n != 0, nil
	}
}

func describeAmount(tx models.Submission) string {
	if tx.Outcome.IsPositive() {
		return tx.Outcome.Neg().StringFixed(2)
	}
	return tx.Income.StringFixed(2)
}

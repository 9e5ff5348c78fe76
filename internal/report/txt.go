package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/cleared-dev/concilia/internal/model"
)

// The TXT export is the accounting-system import layout:
// ddmmyyyy,debit,credit,amount,350,"description"
const (
	txtFields      = 6
	txtDateFormat  = "02012006"
	txtHistoryCode = "350"
	colTXTDate     = 0
	colTXTDebit    = 1
	colTXTCredit   = 2
	colTXTAmount   = 3
	colTXTHistory  = 4
	colTXTDesc     = 5
)

// MarshalEntry converts an entry to the TXT fields, description unquoted.
func MarshalEntry(e model.Entry) []string {
	row := make([]string, txtFields)
	row[colTXTDate] = e.Date.Format(txtDateFormat)
	row[colTXTDebit] = e.DebitAccount
	row[colTXTCredit] = e.CreditAccount
	row[colTXTAmount] = e.Amount.Abs().StringFixed(2)
	row[colTXTHistory] = txtHistoryCode
	row[colTXTDesc] = strings.ReplaceAll(e.Description, `"`, "'")
	return row
}

// WriteTXT writes one line per entry. The description is always quoted.
// Characters windows-1252 cannot hold are replaced.
func WriteTXT(w io.Writer, entries []model.Entry, enc string) error {
	var closer io.Closer
	switch strings.ToLower(enc) {
	case "", "utf-8", "utf8":
	case "windows-1252", "cp1252":
		w = encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()).Writer(w)
		closer, _ = w.(io.Closer)
	default:
		return fmt.Errorf("unknown TXT encoding %q", enc)
	}

	bw := bufio.NewWriter(w)
	for i, e := range entries {
		row := MarshalEntry(e)
		line := strings.Join(row[:colTXTDesc], ",") + `,"` + row[colTXTDesc] + "\"\n"
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}

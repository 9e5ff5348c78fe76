package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func readCSV(path string, opts Options) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCSV(f, opts)
}

// ReadCSV reads delimited text in the given encoding. Rows may have
// differing field counts. A zero delimiter is sniffed from the first line.
func ReadCSV(r io.Reader, opts Options) ([][]string, error) {
	dec, err := decoder(opts.Encoding)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(transform.NewReader(r, xunicode.BOMOverride(dec.NewDecoder().Transformer)))
	cr := csv.NewReader(br)
	cr.Comma = opts.Delimiter
	if cr.Comma == 0 {
		cr.Comma = sniffDelimiter(br)
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return records, nil
}

// sniffDelimiter counts candidate separators in the first line without
// consuming it. Ties and empty input fall back to ';'.
func sniffDelimiter(br *bufio.Reader) rune {
	head, _ := br.Peek(4096)
	line := string(head)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestCount := ';', strings.Count(line, ";")
	for _, c := range []rune{',', '\t'} {
		if n := strings.Count(line, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

func decoder(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", EncodingUTF8, "utf8", "utf-8-sig":
		return xunicode.UTF8, nil
	case EncodingLatin1, "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
}

package fetcher

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	LazyQuotes bool
	TrimSpace  bool
	// Latin1 decodes the input from ISO-8859-1, the encoding of the
	// Receita Federal open-data files.
	Latin1 bool
}

// DetectSeparator picks the most frequent candidate separator (| ; ,) from
// the first lines of a sample. Defaults to '|', the Receita layout.
func DetectSeparator(sample string) rune {
	lines := make([]string, 0, 20)
	for _, l := range strings.Split(sample, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
		if len(lines) == 20 {
			break
		}
	}

	candidates := []rune{'|', ';', ','}
	best := '|'
	bestScore := -1
	for _, sep := range candidates {
		score := 0
		for _, l := range lines {
			score += strings.Count(l, string(sep))
		}
		if score > bestScore {
			best, bestScore = sep, score
		}
	}
	return best
}

// StreamCSV reads CSV rows from r and sends them to a channel. The caller
// must consume the row channel; errors are sent on the error channel. Both
// channels are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		if opts.Latin1 {
			r = charmap.ISO8859_1.NewDecoder().Reader(r)
		}

		reader := csv.NewReader(bufio.NewReader(r))
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1 // the open-data files drift between layouts

		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if opts.TrimSpace {
				for i, field := range record {
					record[i] = strings.TrimSpace(field)
				}
			}

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled sending row")
				return
			}
		}
	}()

	return rowCh, errCh
}

// FlattenCSV parses CSV content and joins every cell into one text blob,
// rows separated by newlines and cells by single spaces. Parse failures
// yield the rows read so far.
func FlattenCSV(content []byte) string {
	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var sb strings.Builder
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		sb.WriteString(strings.Join(record, " "))
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

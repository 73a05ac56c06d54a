package requests

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ImportRow is one request read back from a CSV in the export layout.
type ImportRow struct {
	Line       int
	Department string
	Date       time.Time
	Status     Status
	Email      string
}

// ReadCSV parses the export layout. The ID and User columns are ignored;
// requests are re-owned by Email. A leading byte order mark is optional.
func ReadCSV(src io.Reader) ([]ImportRow, error) {
	r := csv.NewReader(transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	for _, k := range []string{"Department", "Date", "Status", "Email"} {
		if _, ok := idx[k]; !ok {
			return nil, fmt.Errorf("missing required column: %s", k)
		}
	}

	var out []ImportRow
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read: %w", err)
		}

		row := ImportRow{
			Line:       line,
			Department: strings.TrimSpace(rec[idx["Department"]]),
			Status:     Status(strings.ToUpper(strings.TrimSpace(rec[idx["Status"]]))),
			Email:      strings.ToLower(strings.TrimSpace(rec[idx["Email"]])),
		}
		row.Date, err = time.ParseInLocation(CSVDateLayout, strings.TrimSpace(rec[idx["Date"]]), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("row %d: date must look like 31.12.2025 09:30: %w", line, err)
		}
		if err := row.validate(); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("CSV has no data rows")
	}
	return out, nil
}

func (r ImportRow) validate() error {
	switch {
	case r.Department == "":
		return fmt.Errorf("row %d: department is empty", r.Line)
	case r.Email == "":
		return fmt.Errorf("row %d: email is empty", r.Line)
	}
	switch r.Status {
	case StatusPending, StatusApproved, StatusRejected:
		return nil
	}
	return fmt.Errorf("row %d: unknown status %q", r.Line, r.Status)
}

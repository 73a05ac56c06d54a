package requests

import (
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/text/encoding/unicode"
)

// CSVDateLayout renders dates as dd.MM.yyyy HH:mm.
const CSVDateLayout = "02.01.2006 15:04"

var csvHeader = []string{"ID", "Department", "Date", "Status", "User", "Email"}

// WriteCSV writes requests as UTF-8 CSV with a leading byte order mark so
// spreadsheet tools detect the encoding. Dates are rendered in UTC.
func WriteCSV(w io.Writer, reqs []Request) error {
	enc := unicode.UTF8BOM.NewEncoder().Writer(w)
	cw := csv.NewWriter(enc)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range reqs {
		r := &reqs[i]
		var user, email string
		if r.User != nil {
			user = r.User.FirstName + " " + r.User.LastName
			email = r.User.Email
		}
		record := []string{
			strconv.FormatInt(r.ID, 10),
			r.Department,
			r.Date.UTC().Format(CSVDateLayout),
			string(r.Status),
			user,
			email,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

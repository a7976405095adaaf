// Package export renders filtered expense sets as downloadable reports.
package export

import (
	"encoding/csv"
	"io"

	"chapterfund/internal/models"
)

// csvHeader is the fixed column set of the CSV report.
var csvHeader = []string{"Date", "Item", "Category", "Cost", "Funded By", "Status", "Comments"}

// WriteCSV writes the expense set as CSV. An empty set produces a
// header-only file.
func WriteCSV(w io.Writer, expenses []models.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range expenses {
		record := []string{
			e.Date.Format("2006-01-02"),
			e.Item,
			e.Category,
			e.Cost.StringFixed(2),
			e.FundedBy,
			string(e.Status),
			e.Comments,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

package export

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"chapterfund/internal/models"
)

// pdfColumn describes one column of the tabular PDF layout.
type pdfColumn struct {
	title string
	width float64
}

// The report layout is fixed: Date, Item, Category, Amount.
var pdfColumns = []pdfColumn{
	{"Date", 28},
	{"Item", 80},
	{"Category", 42},
	{"Amount", 28},
}

// WritePDF renders the expense set as a tabular PDF report and writes it
// to w.
func WritePDF(w io.Writer, title string, expenses []models.Expense, generatedAt time.Time) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(0, 10, title)
	doc.Ln(12)

	totalSpent := decimal.Zero
	for _, e := range expenses {
		totalSpent = totalSpent.Add(e.Cost)
	}

	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 6, "Generated on: "+generatedAt.Format("Jan 2, 2006 15:04"))
	doc.Ln(6)
	doc.Cell(0, 6, "Total expenses: $"+totalSpent.StringFixed(2))
	doc.Ln(6)
	doc.CellFormat(0, 6, "Transaction count: "+decimal.NewFromInt(int64(len(expenses))).String(), "", 1, "L", false, 0, "")
	doc.Ln(4)

	// Header row
	doc.SetFillColor(37, 99, 235)
	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Helvetica", "B", 10)
	for _, col := range pdfColumns {
		doc.CellFormat(col.width, 8, col.title, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "", 10)
	fill := false
	for _, e := range expenses {
		doc.SetFillColor(243, 244, 246)
		doc.CellFormat(pdfColumns[0].width, 7, e.Date.Format("01/02/06"), "1", 0, "L", fill, 0, "")
		doc.CellFormat(pdfColumns[1].width, 7, truncate(e.Item, 48), "1", 0, "L", fill, 0, "")
		doc.CellFormat(pdfColumns[2].width, 7, truncate(e.Category, 24), "1", 0, "L", fill, 0, "")
		doc.CellFormat(pdfColumns[3].width, 7, "$"+e.Cost.StringFixed(2), "1", 0, "R", fill, 0, "")
		doc.Ln(-1)
		fill = !fill
	}

	return doc.Output(w)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

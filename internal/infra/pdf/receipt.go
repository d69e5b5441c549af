package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/Gachet-A/IYFFA-Website-Back/internal/core/port"
)

// ReceiptRenderer writes donation receipts as A4 PDFs under the media root.
type ReceiptRenderer struct {
	dir                string
	associationName    string
	associationAddress string
	associationContact string
}

func NewReceiptRenderer(mediaRoot, name, address, contact string) *ReceiptRenderer {
	return &ReceiptRenderer{
		dir:                filepath.Join(mediaRoot, "receipts"),
		associationName:    name,
		associationAddress: address,
		associationContact: contact,
	}
}

// Render produces the receipt file and returns its path. The file name embeds
// the transaction id and timestamp so repeated renders never collide.
func (r *ReceiptRenderer) Render(data port.ReceiptData) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create receipts directory: %w", err)
	}

	name := fmt.Sprintf("receipt_%s_%s.pdf", sanitize(data.TransactionID), data.PaymentDate.Format("20060102T150405"))
	path := filepath.Join(r.dir, name)

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(20, 20, 20)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 10, "Donation receipt", "", 1, "C", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 6, r.associationName, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	for _, line := range strings.Split(r.associationAddress, ",") {
		doc.CellFormat(0, 6, strings.TrimSpace(line), "", 1, "L", false, 0, "")
	}
	doc.CellFormat(0, 6, r.associationContact, "", 1, "L", false, 0, "")
	doc.Ln(8)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 6, "Donor", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 6, data.DonorName, "", 1, "L", false, 0, "")
	if data.DonorAddress != "" {
		doc.MultiCell(0, 6, data.DonorAddress, "", "L", false)
	}
	doc.Ln(8)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 6, "Details", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Date", data.PaymentDate.Format("02.01.2006")},
		{"Amount", fmt.Sprintf("%.2f %s", data.Amount, strings.ToUpper(data.Currency))},
		{"Payment method", data.PaymentMethod},
		{"Transaction", data.TransactionID},
	}
	for _, row := range rows {
		doc.CellFormat(50, 7, row[0], "1", 0, "L", false, 0, "")
		doc.CellFormat(0, 7, row[1], "1", 1, "L", false, 0, "")
	}
	doc.Ln(10)

	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 5, fmt.Sprintf(
		"%s confirms having received the amount above as a donation. "+
			"No goods or services were provided in exchange for this contribution.",
		r.associationName), "", "L", false)
	doc.Ln(16)

	doc.CellFormat(0, 6, "For the association,", "", 1, "L", false, 0, "")
	doc.Ln(12)
	doc.CellFormat(80, 0, "", "T", 1, "L", false, 0, "")

	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write receipt pdf: %w", err)
	}

	return path, nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

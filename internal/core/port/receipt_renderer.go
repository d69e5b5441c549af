package port

import "time"

// ReceiptData carries the facts printed on a donation receipt.
type ReceiptData struct {
	Amount        float64
	Currency      string
	PaymentMethod string
	DonorName     string
	DonorAddress  string
	PaymentDate   time.Time
	TransactionID string
}

// ReceiptRenderer renders a receipt document and returns the file path.
type ReceiptRenderer interface {
	Render(data ReceiptData) (path string, err error)
}

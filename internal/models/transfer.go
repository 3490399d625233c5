// internal/models/transfer.go
package models

import "github.com/google/uuid"

// Transfer is a receipt for one value transfer made by a successful call.
type Transfer struct {
	ID        uuid.UUID `json:"id"`
	TxID      string    `json:"tx_id"`
	Method    string    `json:"method"`
	To        AccountID `json:"to"`
	Amount    Amount    `json:"amount"`
	Timestamp int64     `json:"timestamp"`
}

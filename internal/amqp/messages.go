package amqp

import (
	"encoding/json"
	"time"

	"ledger/internal/core"
)

// TransactionAddedMessage announces a row appended to the ledger file.
// Dates use the ledger's DD-MM-YYYY form.
type TransactionAddedMessage struct {
	Date        string    `json:"date"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewTransactionAddedMessage(tx core.Transaction) *TransactionAddedMessage {
	return &TransactionAddedMessage{
		Date:        tx.Date.String(),
		Amount:      tx.Amount,
		Category:    tx.Category.String(),
		Description: tx.Description,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

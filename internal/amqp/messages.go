package amqp

import (
	"encoding/json"
	"time"

	"gastos/internal/core"
)

// ExpenseSyncMessage asks the worker to mirror one local record to the
// household sheet. It carries only id and version; the worker fetches the
// current row from the database.
type ExpenseSyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// ExpenseDeleteMessage asks the worker to remove a record's mirror row. The
// local row is gone by the time the worker runs, so the message carries the
// fields needed to find the matching sheet row.
type ExpenseDeleteMessage struct {
	ID          int64     `json:"id"`
	Date        string    `json:"date"` // DD/MM/YYYY store form
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Person      string    `json:"person"`
	Card        string    `json:"card"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewExpenseSyncMessage(id, version int64) *ExpenseSyncMessage {
	return &ExpenseSyncMessage{ID: id, Version: version, Timestamp: time.Now()}
}

func NewExpenseDeleteMessage(id int64, e core.Expense) *ExpenseDeleteMessage {
	return &ExpenseDeleteMessage{
		ID:          id,
		Date:        e.Date.StoreString(),
		Amount:      e.Amount.String(),
		Description: e.Description,
		Person:      e.Person,
		Card:        e.Card,
		Timestamp:   time.Now(),
	}
}

func (m *ExpenseSyncMessage) ToJSON() ([]byte, error) { return json.Marshal(m) }

func (m *ExpenseDeleteMessage) ToJSON() ([]byte, error) { return json.Marshal(m) }

func ExpenseSyncMessageFromJSON(data []byte) (*ExpenseSyncMessage, error) {
	var msg ExpenseSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func ExpenseDeleteMessageFromJSON(data []byte) (*ExpenseDeleteMessage, error) {
	var msg ExpenseDeleteMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

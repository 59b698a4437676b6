package amqp

import (
	"testing"

	"gastos/internal/core"
)

func TestExpenseSyncMessageRoundTrip(t *testing.T) {
	msg := NewExpenseSyncMessage(7, 3)
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := ExpenseSyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != 7 || got.Version != 3 {
		t.Fatalf("unexpected message: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}
}

func TestExpenseDeleteMessageCarriesRowData(t *testing.T) {
	e := core.Expense{
		Amount:      core.ParseAmount("1.234,56"),
		Person:      "Marcelo",
		Card:        "BROU",
		Description: "heladera",
	}
	d, err := core.ParseDate("05/06/2024")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	e.Date = d

	msg := NewExpenseDeleteMessage(9, e)
	if msg.Date != "05/06/2024" {
		t.Fatalf("date not in store form: %s", msg.Date)
	}
	if msg.Amount != "1234.56" {
		t.Fatalf("unexpected amount: %s", msg.Amount)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := ExpenseDeleteMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != 9 || got.Person != "Marcelo" || got.Description != "heladera" {
		t.Fatalf("unexpected message: %+v", got)
	}
}

func TestMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := ExpenseSyncMessageFromJSON([]byte("{broken")); err == nil {
		t.Fatalf("expected error for broken JSON")
	}
	if _, err := ExpenseDeleteMessageFromJSON([]byte("")); err == nil {
		t.Fatalf("expected error for empty body")
	}
}

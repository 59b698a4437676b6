// Package google adapts the household Google Sheet to the expense store
// port. Row numbers double as record ids: data row N lives at sheet row
// N+1 because row 1 holds the header.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gastos/internal/core"
	ports "gastos/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var (
	_ ports.ExpenseStore   = (*Client)(nil)
	_ ports.TaxonomyReader = (*Client)(nil)
)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Optional: GOOGLE_SHEET_NAME (default
// "Gastos") and service account credentials via GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Gastos"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return New(svc, spreadsheetID, sheetName), nil
}

// New wires a client around an existing Sheets service.
func New(svc *gsheet.Service, spreadsheetID, sheetName string) *Client {
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	inlineJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	credFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inlineJSON == "" && credFile == "" {
		credFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inlineJSON != "":
		credentialsJSON = []byte(inlineJSON)
	case credFile != "":
		b, err := os.ReadFile(credFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// rowForID maps a record id to its 1-based sheet row.
func (c *Client) rowForID(id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: bad row id %q", core.ErrNotFound, id)
	}
	return n + 1, nil
}

func (c *Client) Create(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	rng := fmt.Sprintf("%s!A:I", c.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{ports.EncodeRow(e)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheetName, err)
	}

	id := ""
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		if row, ok := rowFromRange(resp.Updates.UpdatedRange); ok {
			id = strconv.Itoa(row - 1)
		}
	}
	if id == "" {
		// Fallback: count existing rows to locate the appended record.
		count, err := c.dataRowCount(ctx)
		if err != nil {
			return "", fmt.Errorf("locate appended row: %w", err)
		}
		id = strconv.Itoa(count)
	}

	slog.InfoContext(ctx, "Expense appended to sheet",
		"id", id, "sheet", c.sheetName, "person", e.Person, "card", e.Card)
	return id, nil
}

func (c *Client) Get(ctx context.Context, id string) (core.Expense, error) {
	row, err := c.rowForID(id)
	if err != nil {
		return core.Expense{}, err
	}
	rng := fmt.Sprintf("%s!A%d:I%d", c.sheetName, row, row)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return core.Expense{}, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return core.Expense{}, core.ErrNotFound
	}
	return ports.DecodeRow(id, resp.Values[0]), nil
}

func (c *Client) List(ctx context.Context) ([]core.Expense, error) {
	rng := fmt.Sprintf("%s!A2:I", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	out := make([]core.Expense, 0, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		out = append(out, ports.DecodeRow(strconv.Itoa(i+1), row))
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, id string, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	row, err := c.rowForID(id)
	if err != nil {
		return err
	}
	rng := fmt.Sprintf("%s!A%d:I%d", c.sheetName, row, row)
	vr := &gsheet.ValueRange{Values: [][]any{ports.EncodeRow(e)}}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	slog.InfoContext(ctx, "Expense row updated", "id", id, "sheet", c.sheetName)
	return nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	row, err := c.rowForID(id)
	if err != nil {
		return err
	}
	sheetID, err := c.sheetID(ctx)
	if err != nil {
		return fmt.Errorf("resolve sheet id: %w", err)
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			DeleteDimension: &gsheet.DeleteDimensionRequest{
				Range: &gsheet.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1), // zero-based, inclusive
					EndIndex:   int64(row),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d: %w", row, err)
	}
	slog.InfoContext(ctx, "Expense row deleted", "id", id, "sheet", c.sheetName)
	return nil
}

// FindByData locates the sheet row matching a record's identifying fields.
// SQLite row ids never match sheet row numbers, so the worker matches on
// content: date in store form, amount, description, person and card. The
// last matching row wins when duplicates exist.
func (c *Client) FindByData(ctx context.Context, date, amount, description, person, card string) (string, error) {
	expenses, err := c.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list sheet rows: %w", err)
	}

	want := core.ParseAmount(amount)
	found := ""
	for _, e := range expenses {
		if e.Date.StoreString() != date {
			continue
		}
		if e.Description != description || e.Person != person || e.Card != card {
			continue
		}
		if !e.Amount.Equal(want) {
			continue
		}
		found = e.ID
	}
	if found == "" {
		return "", core.ErrNotFound
	}
	return found, nil
}

// Taxonomies returns the fixed household sets. The sheet itself only stores
// records; the categorical values live in the application.
func (c *Client) Taxonomies(_ context.Context) ([]string, []string, []string, error) {
	return core.DefaultCategories, core.DefaultPersons, core.DefaultCards, nil
}

func (c *Client) sheetID(ctx context.Context) (int64, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == c.sheetName {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", c.sheetName)
}

func (c *Client) dataRowCount(ctx context.Context) (int, error) {
	rng := fmt.Sprintf("%s!A:A", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 {
		return 0, nil
	}
	return len(resp.Values) - 1, nil
}

// rowFromRange extracts the starting row number from an A1-style range like
// "Gastos!A12:I12".
func rowFromRange(a1 string) (int, bool) {
	if i := strings.Index(a1, "!"); i >= 0 {
		a1 = a1[i+1:]
	}
	if i := strings.Index(a1, ":"); i >= 0 {
		a1 = a1[:i]
	}
	digits := strings.TrimLeft(a1, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

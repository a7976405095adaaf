package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

// assertDecimalField compares a JSON-serialized decimal by value rather than
// by its string rendering.
func assertDecimalField(t *testing.T, payload map[string]interface{}, field, want string) {
	t.Helper()
	raw, _ := payload[field].(string)
	got, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("%s is not a decimal: %v", field, payload[field])
	}
	expected, _ := decimal.NewFromString(want)
	if !got.Equal(expected) {
		t.Errorf("expected %s = %s, got %s", field, want, got)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginToken(t, router, "dash@ieee.org")
	budgetID := createBudget(t, router, token, "Operating Budget", "2025-2026", "2000.00")

	createExpense(t, router, token, budgetID, "Pizza", "Food", "100.00")
	createExpense(t, router, token, budgetID, "Flights", "Travel", "400.00")

	w := doJSON(t, router, http.MethodGet, "/api/v1/reports/dashboard", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	dashboard, _ := decodeBody(t, w)["dashboard"].(map[string]interface{})
	assertDecimalField(t, dashboard, "total_allocated", "2000")
	assertDecimalField(t, dashboard, "total_spent", "500")
	assertDecimalField(t, dashboard, "remaining", "1500")
	recent, _ := dashboard["recent_expenses"].([]interface{})
	if len(recent) != 2 {
		t.Errorf("expected 2 recent expenses, got %d", len(recent))
	}
}

func TestCategoryBreakdownEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginToken(t, router, "breakdown@ieee.org")
	budgetID := createBudget(t, router, token, "Operating Budget", "2025-2026", "2000.00")

	createExpense(t, router, token, budgetID, "Flights", "Travel", "400.00")
	createExpense(t, router, token, budgetID, "Pizza", "Food", "100.00")

	w := doJSON(t, router, http.MethodGet, "/api/v1/reports/category-breakdown", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	breakdown, _ := decodeBody(t, w)["breakdown"].([]interface{})
	if len(breakdown) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(breakdown))
	}
	first, _ := breakdown[0].(map[string]interface{})
	if first["category"] != "Travel" {
		t.Errorf("expected the biggest category first, got %v", first["category"])
	}
}

func TestExportCSVEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginToken(t, router, "csv@ieee.org")
	budgetID := createBudget(t, router, token, "Operating Budget", "2025-2026", "2000.00")
	createExpense(t, router, token, budgetID, "Pizza", "Food", "84.50")

	w := doJSON(t, router, http.MethodGet, "/api/v1/reports/export/csv", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	disposition := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(disposition, `attachment; filename="expenses-`) {
		t.Errorf("unexpected Content-Disposition %q", disposition)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if strings.TrimSpace(lines[0]) != "Date,Item,Category,Cost,Funded By,Status,Comments" {
		t.Errorf("unexpected CSV header %q", lines[0])
	}
	if len(lines) != 2 {
		t.Fatalf("expected a header and one row, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "Pizza") || !strings.Contains(lines[1], "84.50") {
		t.Errorf("unexpected CSV row %q", lines[1])
	}
}

func TestExportPDFEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginToken(t, router, "pdf@ieee.org")
	budgetID := createBudget(t, router, token, "Operating Budget", "2025-2026", "2000.00")
	createExpense(t, router, token, budgetID, "Pizza", "Food", "84.50")

	w := doJSON(t, router, http.MethodGet, "/api/v1/reports/export/pdf", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Errorf("expected a PDF body, got %q", w.Body.String()[:16])
	}
}

package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func createExpense(t *testing.T, router *gin.Engine, token, budgetID, item, category, cost string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/expenses", token, gin.H{
		"budget_id": budgetID,
		"item":      item,
		"category":  category,
		"cost":      cost,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", w.Code, w.Body.String())
	}
	expense, _ := decodeBody(t, w)["expense"].(map[string]interface{})
	id, _ := expense["id"].(string)
	if id == "" {
		t.Fatal("expected an expense id")
	}
	return id
}

func transition(t *testing.T, router *gin.Engine, token, expenseID, status string) {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/expenses/"+expenseID+"/status", token, gin.H{
		"status": status,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("transition to %s failed: %d %s", status, w.Code, w.Body.String())
	}
}

func TestCreateExpenseEndpoint(t *testing.T) {
	t.Run("starts_in_draft", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "expenses@ieee.org")
		budgetID := createBudget(t, router, token, "Operating Budget", "2025-2026", "5000.00")

		w := doJSON(t, router, http.MethodPost, "/api/v1/expenses", token, gin.H{
			"budget_id": budgetID,
			"item":      "Pizza for GBM",
			"category":  "Food",
			"cost":      "84.50",
			"funded_by": "Chapter funds",
			"date":      "2026-03-14",
		})

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		expense, _ := decodeBody(t, w)["expense"].(map[string]interface{})
		if expense["status"] != "draft" {
			t.Errorf("expected draft status, got %v", expense["status"])
		}
	})

	t.Run("rejects_unknown_budget", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "nobudget@ieee.org")

		w := doJSON(t, router, http.MethodPost, "/api/v1/expenses", token, gin.H{
			"budget_id": "0190a1b2-0000-7000-8000-000000000000",
			"item":      "Orphan",
			"category":  "Other",
			"cost":      "10.00",
		})

		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 for an unknown budget, got %d", w.Code)
		}
	})

	t.Run("rejects_non_positive_cost", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "zerocost@ieee.org")
		budgetID := createBudget(t, router, token, "Operating Budget", "2025-2026", "5000.00")

		w := doJSON(t, router, http.MethodPost, "/api/v1/expenses", token, gin.H{
			"budget_id": budgetID,
			"item":      "Freebie",
			"category":  "Other",
			"cost":      "-5.00",
		})

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for a negative cost, got %d", w.Code)
		}
	})
}

func TestTransitionStatusEndpoint(t *testing.T) {
	t.Run("walks_the_pipeline", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "pipeline@ieee.org")
		budgetID := createBudget(t, router, token, "Operating Budget", "2025-2026", "5000.00")
		expenseID := createExpense(t, router, token, budgetID, "Robot kit", "Equipment", "320.00")

		for _, status := range []string{"pending_review", "approved", "payment_processing", "completed"} {
			transition(t, router, token, expenseID, status)
		}

		w := doJSON(t, router, http.MethodGet, "/api/v1/expenses/"+expenseID, token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		expense, _ := decodeBody(t, w)["expense"].(map[string]interface{})
		if expense["status"] != "completed" {
			t.Errorf("expected completed, got %v", expense["status"])
		}
	})

	t.Run("rejects_skipping_a_stage", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "skipper@ieee.org")
		budgetID := createBudget(t, router, token, "Operating Budget", "2025-2026", "5000.00")
		expenseID := createExpense(t, router, token, budgetID, "Banner", "Marketing", "45.00")

		w := doJSON(t, router, http.MethodPost, "/api/v1/expenses/"+expenseID+"/status", token, gin.H{
			"status": "approved",
		})
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409 skipping pending_review, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("terminal_expense_is_frozen", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "frozen@ieee.org")
		budgetID := createBudget(t, router, token, "Operating Budget", "2025-2026", "5000.00")
		expenseID := createExpense(t, router, token, budgetID, "Posters", "Marketing", "30.00")

		transition(t, router, token, expenseID, "pending_review")
		transition(t, router, token, expenseID, "rejected")

		w := doJSON(t, router, http.MethodPost, "/api/v1/expenses/"+expenseID+"/status", token, gin.H{
			"status": "pending_review",
		})
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409 for a rejected expense, got %d", w.Code)
		}
	})
}

func TestExpenseTimelineEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginToken(t, router, "timeline@ieee.org")
	budgetID := createBudget(t, router, token, "Operating Budget", "2025-2026", "5000.00")
	expenseID := createExpense(t, router, token, budgetID, "Conference travel", "Travel", "410.00")

	transition(t, router, token, expenseID, "pending_review")
	transition(t, router, token, expenseID, "approved")

	w := doJSON(t, router, http.MethodGet, "/api/v1/expenses/"+expenseID+"/timeline", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	timeline, _ := decodeBody(t, w)["timeline"].([]interface{})
	if len(timeline) != 5 {
		t.Fatalf("expected 5 pipeline stages, got %d", len(timeline))
	}

	first, _ := timeline[0].(map[string]interface{})
	third, _ := timeline[2].(map[string]interface{})
	last, _ := timeline[4].(map[string]interface{})
	if first["state"] != "completed" {
		t.Errorf("expected the draft stage completed, got %v", first["state"])
	}
	if third["state"] != "active" {
		t.Errorf("expected the approved stage active, got %v", third["state"])
	}
	if last["state"] != "pending" {
		t.Errorf("expected the completed stage pending, got %v", last["state"])
	}
}

func TestUpdateExpenseEndpoint(t *testing.T) {
	t.Run("approved_expense_not_editable", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "noedit@ieee.org")
		budgetID := createBudget(t, router, token, "Operating Budget", "2025-2026", "5000.00")
		expenseID := createExpense(t, router, token, budgetID, "Catering", "Food", "120.00")

		transition(t, router, token, expenseID, "pending_review")
		transition(t, router, token, expenseID, "approved")

		w := doJSON(t, router, http.MethodPut, "/api/v1/expenses/"+expenseID, token, gin.H{
			"item": "Catering (revised)",
		})
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409 editing an approved expense, got %d", w.Code)
		}
	})

	t.Run("draft_expense_editable", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "editable@ieee.org")
		budgetID := createBudget(t, router, token, "Operating Budget", "2025-2026", "5000.00")
		expenseID := createExpense(t, router, token, budgetID, "Snacks", "Food", "20.00")

		w := doJSON(t, router, http.MethodPut, "/api/v1/expenses/"+expenseID, token, gin.H{
			"item": "Snacks and drinks",
			"cost": "28.00",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		expense, _ := decodeBody(t, w)["expense"].(map[string]interface{})
		if expense["item"] != "Snacks and drinks" {
			t.Errorf("expected updated item, got %v", expense["item"])
		}
	})
}

func TestExpenseFiltersEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginToken(t, router, "filters@ieee.org")
	budgetID := createBudget(t, router, token, "Operating Budget", "2025-2026", "5000.00")

	createExpense(t, router, token, budgetID, "Flights", "Travel", "410.00")
	createExpense(t, router, token, budgetID, "Pizza", "Food", "84.50")

	w := doJSON(t, router, http.MethodGet, "/api/v1/expenses?category=Travel", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data, _ := decodeBody(t, w)["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 travel expense, got %d", len(data))
	}
	expense, _ := data[0].(map[string]interface{})
	if expense["item"] != "Flights" {
		t.Errorf("expected the travel expense, got %v", expense["item"])
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/expenses?status=draft", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data, _ = decodeBody(t, w)["data"].([]interface{})
	if len(data) != 2 {
		t.Errorf("expected 2 draft expenses, got %d", len(data))
	}
}

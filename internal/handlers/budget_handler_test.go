package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"chapterfund/internal/uuid"
)

func createBudget(t *testing.T, router *gin.Engine, token, name, year, amount string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/budgets", token, gin.H{
		"name":             name,
		"academic_year":    year,
		"allocated_amount": amount,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create budget failed: %d %s", w.Code, w.Body.String())
	}
	budget, _ := decodeBody(t, w)["budget"].(map[string]interface{})
	id, _ := budget["id"].(string)
	if id == "" {
		t.Fatal("expected a budget id")
	}
	return id
}

func TestCreateBudgetEndpoint(t *testing.T) {
	t.Run("creates_draft_budget", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "budgets@ieee.org")

		w := doJSON(t, router, http.MethodPost, "/api/v1/budgets", token, gin.H{
			"name":             "Operating Budget",
			"academic_year":    "2025-2026",
			"allocated_amount": "5000.00",
			"description":      "Core chapter funds",
		})

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		budget, _ := decodeBody(t, w)["budget"].(map[string]interface{})
		if budget["status"] != "draft" {
			t.Errorf("expected draft status, got %v", budget["status"])
		}
	})

	t.Run("rejects_bad_academic_year", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "years@ieee.org")

		w := doJSON(t, router, http.MethodPost, "/api/v1/budgets", token, gin.H{
			"name":             "Bad Year",
			"academic_year":    "2025-2027",
			"allocated_amount": "100.00",
		})

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for a non-consecutive year range, got %d", w.Code)
		}
	})

	t.Run("requires_auth", func(t *testing.T) {
		router, _ := newTestRouter(t)

		w := doJSON(t, router, http.MethodPost, "/api/v1/budgets", "", gin.H{
			"name":             "No Auth",
			"academic_year":    "2025-2026",
			"allocated_amount": "100.00",
		})

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}

func TestListBudgetsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginToken(t, router, "list@ieee.org")

	createBudget(t, router, token, "Operating Budget", "2025-2026", "5000.00")
	createBudget(t, router, token, "Robotics Budget", "2026-2027", "2500.00")

	t.Run("lists_all", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/budgets", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		body := decodeBody(t, w)
		data, _ := body["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 budgets, got %d", len(data))
		}
		if body["total_items"] != float64(2) {
			t.Errorf("expected total_items 2, got %v", body["total_items"])
		}
	})

	t.Run("filters_by_academic_year", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/budgets?academic_year=2026-2027", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		data, _ := decodeBody(t, w)["data"].([]interface{})
		if len(data) != 1 {
			t.Fatalf("expected 1 budget, got %d", len(data))
		}
		budget, _ := data[0].(map[string]interface{})
		if budget["name"] != "Robotics Budget" {
			t.Errorf("expected the robotics budget, got %v", budget["name"])
		}
	})

	t.Run("does_not_leak_other_users", func(t *testing.T) {
		other := loginToken(t, router, "other@ieee.org")
		w := doJSON(t, router, http.MethodGet, "/api/v1/budgets", other, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		data, _ := decodeBody(t, w)["data"].([]interface{})
		if len(data) != 0 {
			t.Errorf("expected no budgets for another user, got %d", len(data))
		}
	})
}

func TestUpdateBudgetEndpoint(t *testing.T) {
	t.Run("locked_budget_rejects_edits", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "locked@ieee.org")
		id := createBudget(t, router, token, "Operating Budget", "2025-2026", "5000.00")

		w := doJSON(t, router, http.MethodPut, "/api/v1/budgets/"+id, token, gin.H{
			"status": "locked",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 locking the budget, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, router, http.MethodPut, "/api/v1/budgets/"+id, token, gin.H{
			"name": "Renamed",
		})
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409 editing a locked budget, got %d", w.Code)
		}

		// A status change alone is still allowed.
		w = doJSON(t, router, http.MethodPut, "/api/v1/budgets/"+id, token, gin.H{
			"status": "approved",
		})
		if w.Code != http.StatusOK {
			t.Errorf("expected 200 unlocking via status change, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("not_found_for_unknown_id", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "missing@ieee.org")

		w := doJSON(t, router, http.MethodPut, "/api/v1/budgets/"+uuid.New(), token, gin.H{
			"name": "Ghost",
		})
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}

func TestBudgetUtilizationEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginToken(t, router, "util@ieee.org")
	id := createBudget(t, router, token, "Operating Budget", "2025-2026", "1000.00")

	w := doJSON(t, router, http.MethodPost, "/api/v1/expenses", token, gin.H{
		"budget_id": id,
		"item":      "Venue deposit",
		"category":  "Events",
		"cost":      "250.00",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/budgets/"+id+"/utilization", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	utilization, _ := decodeBody(t, w)["utilization"].(map[string]interface{})
	if utilization["percentage"] != float64(25) {
		t.Errorf("expected 25%% utilization, got %v", utilization["percentage"])
	}
}

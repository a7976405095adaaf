package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"chapterfund/internal/models"
	"chapterfund/internal/testutil"
)

func TestCreateDeadlineEndpoint(t *testing.T) {
	t.Run("creates_chapter_deadline", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "deadlines@ieee.org")

		w := doJSON(t, router, http.MethodPost, "/api/v1/deadlines", token, gin.H{
			"title":    "Submit rebate form",
			"due_date": "2026-10-01",
			"amount":   "50.00",
			"priority": "high",
		})

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		deadline, _ := decodeBody(t, w)["deadline"].(map[string]interface{})
		if deadline["source"] != "chapter" {
			t.Errorf("expected chapter source, got %v", deadline["source"])
		}
		if deadline["status"] != "upcoming" {
			t.Errorf("expected upcoming status, got %v", deadline["status"])
		}
	})

	t.Run("rejects_bad_priority", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "priority@ieee.org")

		w := doJSON(t, router, http.MethodPost, "/api/v1/deadlines", token, gin.H{
			"title":    "Whenever",
			"due_date": "2026-10-01",
			"priority": "urgent",
		})

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for an unknown priority, got %d", w.Code)
		}
	})
}

func TestCompleteDeadlineEndpoint(t *testing.T) {
	t.Run("marks_completed", func(t *testing.T) {
		router, _ := newTestRouter(t)
		token := loginToken(t, router, "complete@ieee.org")

		w := doJSON(t, router, http.MethodPost, "/api/v1/deadlines", token, gin.H{
			"title":    "File expense report",
			"due_date": "2026-09-15",
			"priority": "medium",
		})
		deadline, _ := decodeBody(t, w)["deadline"].(map[string]interface{})
		id, _ := deadline["id"].(string)

		w = doJSON(t, router, http.MethodPost, "/api/v1/deadlines/"+id+"/complete", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		deadline, _ = decodeBody(t, w)["deadline"].(map[string]interface{})
		if deadline["status"] != "completed" {
			t.Errorf("expected completed status, got %v", deadline["status"])
		}
	})

	t.Run("admin_event_is_read_only", func(t *testing.T) {
		router, db := newTestRouter(t)
		token := loginToken(t, router, "readonly@ieee.org")

		var user models.User
		db.Where("email = ?", "readonly@ieee.org").First(&user)
		deadline := testutil.CreateTestDeadlineWithSource(t, db, user.ID, models.DeadlineSourceAdminEvent)

		w := doJSON(t, router, http.MethodPost, "/api/v1/deadlines/"+deadline.ID+"/complete", token, nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403 completing an admin event, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, router, http.MethodDelete, "/api/v1/deadlines/"+deadline.ID, token, nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403 deleting an admin event, got %d", w.Code)
		}
	})
}

func TestListDeadlinesEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginToken(t, router, "duelist@ieee.org")

	doJSON(t, router, http.MethodPost, "/api/v1/deadlines", token, gin.H{
		"title":    "Book venue",
		"due_date": "2020-01-01",
		"priority": "high",
	})
	doJSON(t, router, http.MethodPost, "/api/v1/deadlines", token, gin.H{
		"title":    "Order shirts",
		"due_date": "2099-01-01",
		"priority": "low",
	})

	t.Run("past_due_reported_overdue", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/deadlines?status=overdue", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		data, _ := decodeBody(t, w)["data"].([]interface{})
		if len(data) != 1 {
			t.Fatalf("expected 1 overdue deadline, got %d", len(data))
		}
		deadline, _ := data[0].(map[string]interface{})
		if deadline["title"] != "Book venue" {
			t.Errorf("expected the past-due deadline, got %v", deadline["title"])
		}
		if deadline["status"] != "overdue" {
			t.Errorf("expected overdue status in the response, got %v", deadline["status"])
		}
	})

	t.Run("filters_by_priority", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/deadlines?priority=low", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		data, _ := decodeBody(t, w)["data"].([]interface{})
		if len(data) != 1 {
			t.Fatalf("expected 1 low-priority deadline, got %d", len(data))
		}
	})
}

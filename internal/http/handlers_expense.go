package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"expenses/internal/core"
	"expenses/internal/records"
)

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Expense Tracker API",
		"endpoints": []string{
			"GET /api/expenses",
			"POST /api/expenses",
			"PUT /api/expenses/{id}",
			"DELETE /api/expenses/{id}",
			"POST /api/upload-csv",
			"GET /api/data",
			"POST /api/transactions",
			"PUT /api/transactions/{id}",
			"DELETE /api/transactions/{id}",
			"POST /api/connect/{userId}",
			"POST /api/heartbeat/{userId}",
			"POST /api/reset",
			"GET /health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load expenses")
		return
	}
	if items == nil {
		items = []core.Expense{}
	}
	respondJSON(w, http.StatusOK, items)
}

type createExpenseRequest struct {
	User        string       `json:"user"`
	Amount      *core.Amount `json:"amount"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
	Category    string       `json:"category"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Amount == nil || strings.TrimSpace(req.User) == "" ||
		strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.Date) == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	user, err := core.ParseUser(req.User)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := s.svc.Create(r.Context(), core.Draft{
		User:        user,
		Amount:      *req.Amount,
		Description: req.Description,
		Date:        req.Date,
		Category:    req.Category,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, e)
}

type updateExpenseRequest struct {
	User        string       `json:"user"`
	Amount      *core.Amount `json:"amount"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
	Category    string       `json:"category"`
	UpdatedBy   string       `json:"updatedBy"`
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := core.Patch{Amount: req.Amount, UpdatedBy: req.UpdatedBy}
	if strings.TrimSpace(req.User) != "" {
		u := core.User(req.User)
		if parsed, err := core.ParseUser(req.User); err == nil {
			u = parsed
		}
		patch.User = &u
	}
	if req.Description != "" {
		patch.Description = &req.Description
	}
	if req.Date != "" {
		patch.Date = &req.Date
	}
	if req.Category != "" {
		patch.Category = &req.Category
	}

	e, err := s.svc.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Expense not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	e, err := s.svc.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Expense not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete expense")
		return
	}
	respondJSON(w, http.StatusOK, e)
}

func (s *Server) handleUploadCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxCSVBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	user, err := core.ParseUser(r.FormValue("user"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	imported, err := s.svc.ImportCSV(r.Context(), user, string(data))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to import expenses")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":  successMessage("imported", len(imported), "expenses"),
		"expenses": imported,
	})
}

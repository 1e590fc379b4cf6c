package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"expenses/internal/core"
	"expenses/internal/presence"
	"expenses/internal/records"
)

// dataset is the combined shape the multi-user frontend polls for.
type dataset struct {
	Users        map[core.User]presence.Entry `json:"users"`
	Transactions []core.Expense               `json:"transactions"`
}

func (s *Server) dataset(r *http.Request) (dataset, error) {
	items, err := s.svc.List(r.Context())
	if err != nil {
		return dataset{}, err
	}
	if items == nil {
		items = []core.Expense{}
	}
	return dataset{Users: s.tracker.Snapshot(), Transactions: items}, nil
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	data, err := s.dataset(r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load data")
		return
	}
	respondJSON(w, http.StatusOK, data)
}

type bulkInsertRequest struct {
	UserID       string `json:"userId"`
	Transactions []struct {
		Amount      *core.Amount `json:"amount"`
		Description string       `json:"description"`
		Date        string       `json:"date"`
		Category    string       `json:"category"`
	} `json:"transactions"`
}

func (s *Server) handleBulkInsert(w http.ResponseWriter, r *http.Request) {
	var req bulkInsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := core.ParseUser(req.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch := make([]core.Draft, 0, len(req.Transactions))
	for _, t := range req.Transactions {
		d := core.Draft{
			Description: t.Description,
			Date:        t.Date,
			Category:    t.Category,
		}
		if t.Amount != nil {
			d.Amount = *t.Amount
		}
		batch = append(batch, d)
	}

	inserted, err := s.svc.BulkInsert(r.Context(), user, batch)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to add transactions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":      successMessage("added", len(inserted), "transactions"),
		"transactions": inserted,
	})
}

type editTransactionRequest struct {
	Category  string `json:"category"`
	UpdatedBy string `json:"updatedBy"`
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req editTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch := core.Patch{UpdatedBy: req.UpdatedBy}
	if req.Category != "" {
		patch.Category = &req.Category
	}

	e, err := s.svc.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := s.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Transaction deleted",
	})
}

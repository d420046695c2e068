package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cvrptw-solver/internal/api/dto"
	"cvrptw-solver/internal/pipeline"
)

// StatusHandler exposes GET /packages/status?ids=1,2,3&at=10:30 AM.
type StatusHandler struct {
	Sim      *pipeline.Simulator
	Today    time.Time
	DefaultAt string
}

func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	idsParam := r.URL.Query().Get("ids")
	if strings.TrimSpace(idsParam) == "" {
		writeError(w, r, http.StatusBadRequest, "ids query parameter is required")
		return
	}

	ids := make([]int, 0)
	for _, s := range strings.Split(idsParam, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "ids must be a comma-separated list of integers")
			return
		}
		ids = append(ids, id)
	}

	atParam := r.URL.Query().Get("at")
	if atParam == "" {
		atParam = h.DefaultAt
	}
	clock, err := time.Parse("3:04 PM", atParam)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "at must be in the form \"hh:mm AM/PM\"")
		return
	}
	at := time.Date(h.Today.Year(), h.Today.Month(), h.Today.Day(), clock.Hour(), clock.Minute(), 0, 0, h.Today.Location())

	rows, err := h.Sim.LookupStatus(at, ids)
	if err != nil {
		log.Printf("lookup status failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListStatusResponse{Statuses: make([]dto.StatusResponse, 0, len(rows))}
	for _, row := range rows {
		res.Statuses = append(res.Statuses, dto.StatusResponse{
			PackageID: row.PackageID,
			Address:   row.Address,
			City:      row.City,
			ZIP:       row.ZIP,
			Deadline:  row.Deadline,
			Weight:    row.Weight,
			Status:    string(row.Status),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

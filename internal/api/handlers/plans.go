package handlers

import (
	"encoding/json"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"cvrptw-solver/internal/api/dto"
	"cvrptw-solver/internal/domain"
	"cvrptw-solver/internal/pipeline"
	"cvrptw-solver/internal/platform/obs"
)

// PlanHandler exposes POST /plans: run one optimization pass over the
// server's shared Simulator and return the resulting routes.
type PlanHandler struct {
	Sim *pipeline.Simulator
}

func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest
	if r.ContentLength != 0 {
		dec := json.NewDecoder(r.Body)
		defer r.Body.Close()
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid json body")
			return
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
			return
		}
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ctx, runID := obs.WithRunID(r.Context())
	plan, err := h.Sim.Optimize(ctx, rng)
	if err != nil {
		log.Printf("run_id=%s optimize failed: %v", runID, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	_, totalMiles := h.Sim.TestEval(plan, false)
	writeJSON(w, r, http.StatusOK, toPlanResponse(plan, totalMiles))
}

func toPlanResponse(plan domain.Plan, totalMiles float64) dto.PlanResponse {
	res := dto.PlanResponse{TotalMiles: totalMiles, Routes: make([]dto.RouteResponse, 0, len(plan))}
	for _, route := range plan {
		rr := dto.RouteResponse{TruckNumber: route.Truck.Number}
		cursor := route.Steps()
		for {
			step, ok := cursor.Next()
			if !ok {
				break
			}
			switch s := step.(type) {
			case domain.PackageStep:
				id := s.Package.ID
				rr.Stops = append(rr.Stops, dto.StopResponse{
					PackageID: &id,
					Address:   s.Package.DeliveryLocation.Address,
					Deadline:  s.Package.DeliveryDeadline.Format("3:04 PM"),
				})
			case domain.DepotStopStep:
				rr.Stops = append(rr.Stops, dto.StopResponse{
					IsDepotStop: true,
					WaitMinutes: s.Stop.WaitMinutes,
				})
			}
		}
		res.Routes = append(res.Routes, rr)
	}
	return res
}

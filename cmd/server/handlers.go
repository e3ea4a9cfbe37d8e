package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/liamcoop/carmatch/internal/logger"
	"github.com/liamcoop/carmatch/inventory"
	"github.com/liamcoop/carmatch/marketplace"
	"github.com/liamcoop/carmatch/matching"
	"github.com/liamcoop/carmatch/rules"
)

const noMatchMessage = "No suitable cars found for your requirements."

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// respondServiceError maps domain errors onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, marketplace.ErrNoMatch):
		respondError(w, http.StatusNotFound, noMatchMessage, nil)
	case errors.Is(err, marketplace.ErrRequirementNotFound),
		errors.Is(err, marketplace.ErrQuotationNotFound),
		errors.Is(err, inventory.ErrNotFound),
		errors.Is(err, rules.ErrRuleNotFound):
		respondError(w, http.StatusNotFound, "not found", err)
	case errors.Is(err, marketplace.ErrInvalidBatch),
		errors.Is(err, rules.ErrInvalidRule):
		respondError(w, http.StatusBadRequest, "invalid request", err)
	case errors.Is(err, rules.ErrRuleExists):
		respondError(w, http.StatusConflict, "rule already exists", err)
	default:
		respondError(w, http.StatusInternalServerError, "internal server error", err)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{Status: "healthy", Storage: "memory", Cache: "memory", Counters: logger.Counters()}

	if s.db != nil {
		health.Storage = "postgres"
		if err := s.db.PingContext(r.Context()); err != nil {
			respondError(w, http.StatusServiceUnavailable, "database unavailable", err)
			return
		}
	}
	if s.redis != nil {
		health.Cache = "redis"
		// inventory falls back to the store, so a cache outage only degrades
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			health.Status = "degraded"
		}
	}

	respondJSON(w, http.StatusOK, health)
}

func (s *Server) handleListCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f inventory.Filter
	var err error

	if v := q.Get("min_price"); v != "" {
		if f.MinPrice, err = strconv.ParseFloat(v, 64); err != nil {
			respondError(w, http.StatusBadRequest, "min_price must be a number", err)
			return
		}
	}
	if v := q.Get("max_price"); v != "" {
		if f.MaxPrice, err = strconv.ParseFloat(v, 64); err != nil {
			respondError(w, http.StatusBadRequest, "max_price must be a number", err)
			return
		}
	}
	if v := q.Get("min_mileage"); v != "" {
		if f.MinMileage, err = strconv.Atoi(v); err != nil {
			respondError(w, http.StatusBadRequest, "min_mileage must be an integer", err)
			return
		}
	}
	f.FuelType = q.Get("fuel_type")

	var cars []matching.Car
	if f == (inventory.Filter{}) {
		cars, err = s.cars.ListActive(r.Context())
	} else {
		cars, err = s.cars.Search(r.Context(), f)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cars)
}

func (s *Server) handleGetCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "carId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid car id", err)
		return
	}

	car, err := s.cars.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, car)
}

func (s *Server) handleCreateRequirement(w http.ResponseWriter, r *http.Request) {
	var req CreateRequirementRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid requirement", err)
		return
	}

	cr, err := s.service.CreateRequirement(r.Context(), req.CustomerID, matching.Requirement{
		Budget:              req.Budget,
		UsageType:           req.UsageType,
		MileagePriority:     req.MileagePriority,
		MaintenancePriority: req.MaintenancePriority,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cr)
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	var req RequirementRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "requirement_id is required", err)
		return
	}

	in, err := s.service.Interpret(r.Context(), req.RequirementID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, in)
}

func (s *Server) handleInterpretBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchInterpretRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, marketplace.ErrInvalidBatch.Error(), err)
		return
	}

	out, err := s.service.InterpretBatch(r.Context(), req.RequirementIDs)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleInterpretCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customerId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id", err)
		return
	}

	out, err := s.service.InterpretCustomer(r.Context(), customerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req RequirementRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "requirement_id is required", err)
		return
	}

	result, err := s.service.ScoreCars(r.Context(), req.RequirementID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RequirementRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "requirement_id is required", err)
		return
	}

	rec, err := s.service.Recommend(r.Context(), req.RequirementID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGenerateQuotation(w http.ResponseWriter, r *http.Request) {
	var req RequirementRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "requirement_id is required", err)
		return
	}

	q, err := s.service.GenerateQuotation(r.Context(), req.RequirementID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, q)
}

func (s *Server) handleGetQuotation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "quotationId")
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "invalid quotation id", err)
		return
	}

	q, err := s.service.Quotation(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, q)
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	list, err := s.rules.Rules(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var req CreateRuleRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "name and expression are required", err)
		return
	}

	rule := &rules.Rule{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Expression: req.Expression,
		Active:     req.Active == nil || *req.Active,
	}

	// AddRule validates and compiles before storing
	if err := s.rules.AddRule(r.Context(), rule); err != nil {
		respondServiceError(w, err)
		return
	}

	logger.Info("Eligibility rule created", "rule_id", rule.ID, "name", rule.Name)
	respondJSON(w, http.StatusCreated, rule)
}

func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.rules.Rule(r.Context(), chi.URLParam(r, "ruleId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rule)
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	var req UpdateRuleRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid rule", err)
		return
	}

	rule, err := s.rules.Rule(r.Context(), chi.URLParam(r, "ruleId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if req.Name != "" {
		rule.Name = req.Name
	}
	if req.Expression != "" {
		rule.Expression = req.Expression
	}
	if req.Active != nil {
		rule.Active = *req.Active
	}

	if err := s.rules.UpdateRule(r.Context(), rule); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rule)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.rules.DeleteRule(r.Context(), chi.URLParam(r, "ruleId")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := s.decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "requirement_id and car_id are required", err)
		return
	}

	in, err := s.service.Interpret(r.Context(), req.RequirementID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	car, err := s.cars.Get(r.Context(), req.CarID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	startTime := time.Now()
	eligible, results, err := s.rules.Eligible(r.Context(), car, in.InterpretedRequirement)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, EvaluateResponse{
		Eligible:       eligible,
		Results:        toRuleResults(results),
		EvaluationTime: time.Since(startTime).String(),
	})
}

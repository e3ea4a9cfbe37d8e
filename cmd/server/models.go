package main

import (
	"github.com/liamcoop/carmatch/rules"
)

// Request bodies, validated with go-playground/validator.

// CreateRequirementRequest is the raw buyer input for POST /requirements
type CreateRequirementRequest struct {
	CustomerID          int64   `json:"customer_id" validate:"required,gt=0"`
	Budget              float64 `json:"budget" validate:"gte=0"`
	UsageType           string  `json:"usage_type" validate:"max=100"`
	MileagePriority     string  `json:"mileage_priority" validate:"max=20"`
	MaintenancePriority string  `json:"maintenance_priority" validate:"max=20"`
}

// RequirementRequest addresses a single stored requirement
type RequirementRequest struct {
	RequirementID int64 `json:"requirement_id" validate:"required,gt=0"`
}

type BatchInterpretRequest struct {
	RequirementIDs []int64 `json:"requirement_ids" validate:"required,min=1,dive,gt=0"`
}

// CreateRuleRequest is the body for POST /rules. Active defaults to true.
type CreateRuleRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Expression string `json:"expression" validate:"required"`
	Active     *bool  `json:"active,omitempty"`
}

// UpdateRuleRequest replaces a rule. Omitted fields keep their stored value.
type UpdateRuleRequest struct {
	Name       string `json:"name" validate:"omitempty,max=100"`
	Expression string `json:"expression"`
	Active     *bool  `json:"active,omitempty"`
}

// EvaluateRequest checks one car against every active eligibility rule
type EvaluateRequest struct {
	RequirementID int64 `json:"requirement_id" validate:"required,gt=0"`
	CarID         int64 `json:"car_id" validate:"required,gt=0"`
}

// RuleResultResponse is one rule outcome in an evaluation
type RuleResultResponse struct {
	RuleID   string `json:"rule_id"`
	RuleName string `json:"rule_name"`
	Matched  bool   `json:"matched"`
	Error    string `json:"error,omitempty"`
}

type EvaluateResponse struct {
	Eligible       bool                 `json:"eligible"`
	Results        []RuleResultResponse `json:"results"`
	EvaluationTime string               `json:"evaluation_time"`
}

func toRuleResults(results []*rules.EvaluationResult) []RuleResultResponse {
	out := make([]RuleResultResponse, 0, len(results))
	for _, r := range results {
		rr := RuleResultResponse{RuleID: r.RuleID, RuleName: r.RuleName, Matched: r.Matched}
		if r.Error != nil {
			rr.Error = r.Error.Error()
		}
		out = append(out, rr)
	}
	return out
}

type HealthResponse struct {
	Status   string           `json:"status"`
	Storage  string           `json:"storage"`
	Cache    string           `json:"cache"`
	Counters map[string]int64 `json:"counters"`
}

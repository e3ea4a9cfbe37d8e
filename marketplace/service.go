package marketplace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/liamcoop/carmatch/internal/logger"
	"github.com/liamcoop/carmatch/inventory"
	"github.com/liamcoop/carmatch/matching"
	"github.com/liamcoop/carmatch/pricing"
)

// EligibilityFilter narrows the inventory before scoring. *rules.Engine
// satisfies it.
type EligibilityFilter interface {
	Filter(ctx context.Context, cars []matching.Car, req matching.InterpretedRequirement) ([]matching.Car, error)
}

// Service runs stored requirements through interpret, score, select, explain
// and price.
type Service struct {
	requirements RequirementStore
	quotations   QuotationStore
	inventory    inventory.Store
	eligibility  EligibilityFilter
	pricer       *pricing.Engine
	now          func() time.Time
}

type ServiceOption func(*Service)

// WithEligibility filters every candidate list through f. Without it all
// active cars are scored.
func WithEligibility(f EligibilityFilter) ServiceOption {
	return func(s *Service) {
		s.eligibility = f
	}
}

func WithPricer(p *pricing.Engine) ServiceOption {
	return func(s *Service) {
		s.pricer = p
	}
}

// WithClock sets the clock used for interpretation timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(requirements RequirementStore, quotations QuotationStore, inv inventory.Store, opts ...ServiceOption) *Service {
	s := &Service{
		requirements: requirements,
		quotations:   quotations,
		inventory:    inv,
		pricer:       pricing.NewEngine(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequirement stores a raw requirement for a customer.
func (s *Service) CreateRequirement(ctx context.Context, customerID int64, req matching.Requirement) (*CustomerRequirement, error) {
	cr := &CustomerRequirement{CustomerID: customerID, Requirement: req}
	if err := s.requirements.Create(ctx, cr); err != nil {
		return nil, err
	}
	logger.Debug("Requirement created", "requirement_id", cr.ID, "customer_id", customerID)
	return cr, nil
}

func (s *Service) interpret(cr *CustomerRequirement) Interpretation {
	return Interpretation{
		InterpretedRequirement: matching.Interpret(cr.Requirement),
		RequirementID:          cr.ID,
		CustomerID:             cr.CustomerID,
		OriginalCreatedAt:      cr.CreatedAt,
		AIVersion:              AIVersion,
		AIType:                 AIType,
		Timestamp:              s.now(),
	}
}

// Interpret loads a stored requirement and interprets it.
func (s *Service) Interpret(ctx context.Context, requirementID int64) (*Interpretation, error) {
	cr, err := s.requirements.Get(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	out := s.interpret(cr)
	return &out, nil
}

// InterpretBatch interprets each requirement in order. Any missing requirement
// fails the whole batch.
func (s *Service) InterpretBatch(ctx context.Context, requirementIDs []int64) ([]Interpretation, error) {
	if len(requirementIDs) == 0 {
		return nil, ErrInvalidBatch
	}

	out := make([]Interpretation, 0, len(requirementIDs))
	for _, id := range requirementIDs {
		in, err := s.Interpret(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *in)
	}
	return out, nil
}

// InterpretCustomer interprets every requirement of a customer, newest first.
func (s *Service) InterpretCustomer(ctx context.Context, customerID int64) ([]Interpretation, error) {
	crs, err := s.requirements.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]Interpretation, 0, len(crs))
	for _, cr := range crs {
		out = append(out, s.interpret(cr))
	}
	return out, nil
}

// ScoreCars ranks the eligible active inventory for a requirement.
func (s *Service) ScoreCars(ctx context.Context, requirementID int64) (*ScoreResult, error) {
	in, err := s.Interpret(ctx, requirementID)
	if err != nil {
		return nil, err
	}

	cars, err := s.inventory.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	if s.eligibility != nil {
		cars, err = s.eligibility.Filter(ctx, cars, in.InterpretedRequirement)
		if err != nil {
			return nil, fmt.Errorf("failed to apply eligibility rules: %w", err)
		}
	}

	ranked := matching.Rank(matching.ScoreAll(cars, in.InterpretedRequirement))
	logger.Debug("Scored inventory", "requirement_id", requirementID, "cars", len(ranked))

	return &ScoreResult{
		Requirement: *in,
		RankedCars:  ranked,
		Total:       len(ranked),
	}, nil
}

// Recommend picks and explains the best car for a requirement. It returns
// ErrNoMatch when no car survives eligibility.
func (s *Service) Recommend(ctx context.Context, requirementID int64) (*Recommendation, error) {
	result, err := s.ScoreCars(ctx, requirementID)
	if err != nil {
		return nil, err
	}

	best := matching.SelectBest(result.RankedCars)
	if best == nil {
		logger.NoMatchResults.Add(1)
		logger.Info("No suitable cars found", "requirement_id", requirementID)
		return nil, ErrNoMatch
	}

	return &Recommendation{
		RequirementID: requirementID,
		Car:           summarize(best.Car),
		Score:         best.AIScore,
		Explanation:   matching.Explain(best, &result.Requirement.InterpretedRequirement),
		MatchDetails:  best.MatchDetails,
	}, nil
}

// GenerateQuotation prices the recommended car and stores a pending quotation.
func (s *Service) GenerateQuotation(ctx context.Context, requirementID int64) (*Quotation, error) {
	rec, err := s.Recommend(ctx, requirementID)
	if err != nil {
		return nil, err
	}

	car, err := s.inventory.Get(ctx, rec.Car.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommended car: %w", err)
	}

	cr, err := s.requirements.Get(ctx, requirementID)
	if err != nil {
		return nil, err
	}

	priced := s.pricer.Price(car, rec.Score)
	summary := summarize(car)
	q := &Quotation{
		ID:               uuid.New().String(),
		CustomerID:       cr.CustomerID,
		RequirementID:    requirementID,
		CarID:            car.ID,
		Car:              &summary,
		AIScore:          rec.Score,
		BasePrice:        priced.Breakdown.BasePrice,
		FinalPrice:       priced.FinalPrice,
		PricingBreakdown: priced.Breakdown,
		Status:           QuotationPending,
		Explanation:      rec.Explanation,
	}

	if err := s.quotations.Create(ctx, q); err != nil {
		return nil, err
	}

	logger.QuotationsIssued.Add(1)
	logger.Info("Quotation generated", "quotation_id", q.ID, "requirement_id", requirementID,
		"car_id", car.ID, "final_price", q.FinalPrice)
	return q, nil
}

// Quotation returns a stored quotation with its car summary attached when the
// car is still in inventory.
func (s *Service) Quotation(ctx context.Context, id string) (*Quotation, error) {
	q, err := s.quotations.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	car, err := s.inventory.Get(ctx, q.CarID)
	switch {
	case err == nil:
		summary := summarize(car)
		q.Car = &summary
	case !errors.Is(err, inventory.ErrNotFound):
		return nil, fmt.Errorf("failed to load quoted car: %w", err)
	}
	return q, nil
}

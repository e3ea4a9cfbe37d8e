package rules

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/liamcoop/carmatch/matching"
)

// costLimit bounds the work a single expression may do.
const costLimit = 1000000

// Engine compiles eligibility rules and evaluates them against facts.
// Safe for concurrent use.
type Engine struct {
	env      *cel.Env
	store    RuleStore
	cache    RulesCache
	programs map[string]cel.Program // ruleID -> compiled program
	mu       sync.RWMutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache replaces the default in-memory active rule cache.
func WithCache(cache RulesCache) Option {
	return func(en *Engine) { en.cache = cache }
}

// NewEnv returns the CEL environment rules are compiled in. Expressions see
// `car` and `requirement` as maps shaped like Facts.
func NewEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("car", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("requirement", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// NewEngine creates an engine and compiles every active rule in store.
func NewEngine(ctx context.Context, store RuleStore, opts ...Option) (*Engine, error) {
	env, err := NewEnv()
	if err != nil {
		return nil, err
	}

	en := &Engine{
		env:      env,
		store:    store,
		cache:    NewInMemoryRulesCache(DefaultCacheConfig()),
		programs: make(map[string]cel.Program),
	}
	for _, opt := range opts {
		opt(en)
	}

	if err := en.CompileAllRules(ctx); err != nil {
		return nil, fmt.Errorf("failed to compile rules: %w", err)
	}

	return en, nil
}

func (en *Engine) compile(expression string) (cel.Program, error) {
	ast, issues := en.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}

	prog, err := en.env.Program(ast,
		cel.EvalOptions(cel.OptTrackState),
		cel.CostLimit(costLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}
	return prog, nil
}

// CompileRule compiles expression and caches the program under ruleID.
func (en *Engine) CompileRule(ruleID, expression string) error {
	prog, err := en.compile(expression)
	if err != nil {
		return err
	}

	en.mu.Lock()
	en.programs[ruleID] = prog
	en.mu.Unlock()

	return nil
}

// CompileAllRules compiles all active rules from the store and primes the cache.
func (en *Engine) CompileAllRules(ctx context.Context) error {
	rules, err := en.store.ListActive(ctx)
	if err != nil {
		return err
	}

	for _, rule := range rules {
		if err := en.CompileRule(rule.ID, rule.Expression); err != nil {
			return fmt.Errorf("failed to compile rule %s: %w", rule.ID, err)
		}
	}

	en.cache.Set(rules)
	return nil
}

// Rules lists every stored rule.
func (en *Engine) Rules(ctx context.Context) ([]*Rule, error) {
	return en.store.List(ctx)
}

// Rule returns one stored rule.
func (en *Engine) Rule(ctx context.Context, ruleID string) (*Rule, error) {
	return en.store.Get(ctx, ruleID)
}

// AddRule validates, compiles and stores a new rule.
func (en *Engine) AddRule(ctx context.Context, r *Rule) error {
	if err := ValidateRule(r); err != nil {
		return err
	}

	_, err := en.store.Get(ctx, r.ID)
	if err == nil {
		return fmt.Errorf("rule with ID %s: %w", r.ID, ErrRuleExists)
	}
	if !errors.Is(err, ErrRuleNotFound) {
		return err
	}

	if err := en.CompileRule(r.ID, r.Expression); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}

	if err := en.store.Add(ctx, r); err != nil {
		en.mu.Lock()
		delete(en.programs, r.ID)
		en.mu.Unlock()
		return err
	}

	en.cache.Invalidate()
	return nil
}

// UpdateRule validates and recompiles a rule, then stores it. The previous
// program stays in place if either step fails.
func (en *Engine) UpdateRule(ctx context.Context, r *Rule) error {
	if err := ValidateRule(r); err != nil {
		return err
	}

	prog, err := en.compile(r.Expression)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}

	if err := en.store.Update(ctx, r); err != nil {
		return err
	}

	en.mu.Lock()
	en.programs[r.ID] = prog
	en.mu.Unlock()

	en.cache.Invalidate()
	return nil
}

// DeleteRule removes a rule from the store and compiled programs
func (en *Engine) DeleteRule(ctx context.Context, ruleID string) error {
	if err := en.store.Delete(ctx, ruleID); err != nil {
		return err
	}

	en.mu.Lock()
	delete(en.programs, ruleID)
	en.mu.Unlock()

	en.cache.Invalidate()
	return nil
}

func (en *Engine) eval(ctx context.Context, rule *Rule, facts map[string]any) *EvaluationResult {
	result := &EvaluationResult{RuleID: rule.ID, RuleName: rule.Name}

	en.mu.RLock()
	prog, exists := en.programs[rule.ID]
	en.mu.RUnlock()

	if !exists {
		result.Error = fmt.Errorf("rule %s is not compiled", rule.ID)
		return result
	}

	out, details, err := prog.ContextEval(ctx, facts)
	if err != nil {
		result.Error = err
		return result
	}

	// non-boolean results never match
	if b, ok := out.Value().(bool); ok {
		result.Matched = b
	}
	if details != nil {
		result.Trace = details.State()
	}
	return result
}

// Evaluate evaluates a single rule. Evaluation failures are returned both as
// the error and on the result.
func (en *Engine) Evaluate(ctx context.Context, ruleID string, facts map[string]any) (*EvaluationResult, error) {
	rule, err := en.store.Get(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	result := en.eval(ctx, rule, facts)
	return result, result.Error
}

func (en *Engine) activeRules(ctx context.Context) ([]*Rule, error) {
	if rules := en.cache.Get(); rules != nil {
		return rules, nil
	}

	rules, err := en.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	en.cache.Set(rules)
	return rules, nil
}

// EvaluateAll evaluates every active rule. A failing rule is recorded as
// unmatched and evaluation continues.
func (en *Engine) EvaluateAll(ctx context.Context, facts map[string]any) ([]*EvaluationResult, error) {
	rules, err := en.activeRules(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*EvaluationResult, 0, len(rules))
	for _, rule := range rules {
		results = append(results, en.eval(ctx, rule, facts))
	}
	return results, nil
}

// Eligible reports whether car passes every active rule for req.
func (en *Engine) Eligible(ctx context.Context, car matching.Car, req matching.InterpretedRequirement) (bool, []*EvaluationResult, error) {
	results, err := en.EvaluateAll(ctx, Facts(car, req))
	if err != nil {
		return false, nil, err
	}

	for _, r := range results {
		if !r.Matched {
			return false, results, nil
		}
	}
	return true, results, nil
}

// Filter keeps the cars eligible for req, preserving order.
func (en *Engine) Filter(ctx context.Context, cars []matching.Car, req matching.InterpretedRequirement) ([]matching.Car, error) {
	out := make([]matching.Car, 0, len(cars))
	for _, car := range cars {
		ok, _, err := en.Eligible(ctx, car, req)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, car)
		}
	}
	return out, nil
}

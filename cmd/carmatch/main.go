// carmatch runs the recommendation pipeline against a JSON inventory file.
//
// Usage:
//
//	carmatch interpret --budget 1600000 --usage family --mileage medium --maintenance low
//	carmatch score --budget 800000 --usage city --top 5
//	carmatch recommend --budget 1600000 --usage family --rule 'car.fuel_type == "Diesel"'
//	carmatch quote --budget 1600000 --usage family --json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/liamcoop/carmatch/internal/logger"
	"github.com/liamcoop/carmatch/inventory"
	"github.com/liamcoop/carmatch/marketplace"
	"github.com/liamcoop/carmatch/matching"
	"github.com/liamcoop/carmatch/pricing"
	"github.com/liamcoop/carmatch/rules"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "carmatch",
		Usage: "Rule-based car recommendations and quotations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "inventory",
				Aliases: []string{"i"},
				Value:   "data/cars.json",
				Usage:   "Path to the inventory JSON file",
				EnvVars: []string{"INVENTORY_PATH"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (trace, debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			// stdout carries command output
			logger.SetOutput(c.App.ErrWriter)
			level, err := logger.ParseLevel(c.String("log-level"))
			if err != nil {
				return err
			}
			logger.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "interpret",
				Usage:  "Show how a requirement is interpreted",
				Flags:  requirementFlags(),
				Action: runInterpret,
			},
			{
				Name:  "score",
				Usage: "Rank the active inventory for a requirement",
				Flags: append(requirementFlags(), &cli.IntFlag{
					Name:  "top",
					Usage: "Only show the first N cars (0 shows all)",
				}),
				Action: runScore,
			},
			{
				Name:   "recommend",
				Usage:  "Pick and explain the best car",
				Flags:  requirementFlags(),
				Action: runRecommend,
			},
			{
				Name:  "quote",
				Usage: "Price the recommended car",
				Flags: append(requirementFlags(), &cli.IntFlag{
					Name:  "as-of-year",
					Usage: "Reference year for depreciation (defaults to the current year)",
				}),
				Action: runQuote,
			},
		},
	}
}

func requirementFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:     "budget",
			Aliases:  []string{"b"},
			Usage:    "Budget in rupees",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "usage",
			Aliases: []string{"u"},
			Usage:   "Free-text usage, e.g. family, city, highway, business",
		},
		&cli.StringFlag{
			Name:  "mileage",
			Usage: "Mileage priority (low, medium, high)",
		},
		&cli.StringFlag{
			Name:  "maintenance",
			Usage: "Maintenance priority (low, medium, high)",
		},
		&cli.StringSliceFlag{
			Name:  "rule",
			Usage: "CEL eligibility rule over car and requirement (repeatable)",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print JSON instead of text",
		},
	}
}

// session is one requirement stored in an in-memory marketplace.
type session struct {
	service       *marketplace.Service
	requirementID int64
}

func newSession(c *cli.Context, opts ...marketplace.ServiceOption) (*session, error) {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	budget := c.Float64("budget")
	if budget < 0 {
		return nil, errors.New("budget must not be negative")
	}

	cars, err := inventory.NewInMemoryStoreFromFile(c.String("inventory"))
	if err != nil {
		return nil, err
	}

	if exprs := c.StringSlice("rule"); len(exprs) > 0 {
		engine, err := rules.NewEngine(ctx, rules.NewInMemoryRuleStore())
		if err != nil {
			return nil, err
		}
		for i, expr := range exprs {
			rule := &rules.Rule{
				ID:         fmt.Sprintf("cli-%d", i+1),
				Name:       fmt.Sprintf("cli rule %d", i+1),
				Expression: expr,
				Active:     true,
			}
			if err := engine.AddRule(ctx, rule); err != nil {
				return nil, fmt.Errorf("rule %q: %w", expr, err)
			}
		}
		opts = append(opts, marketplace.WithEligibility(engine))
	}

	svc := marketplace.NewService(marketplace.NewInMemoryRequirementStore(),
		marketplace.NewInMemoryQuotationStore(), cars, opts...)

	cr, err := svc.CreateRequirement(ctx, 0, matching.Requirement{
		Budget:              budget,
		UsageType:           c.String("usage"),
		MileagePriority:     c.String("mileage"),
		MaintenancePriority: c.String("maintenance"),
	})
	if err != nil {
		return nil, err
	}
	return &session{service: svc, requirementID: cr.ID}, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runInterpret(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	in, err := s.service.Interpret(c.Context, s.requirementID)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, in.InterpretedRequirement)
	}

	w := c.App.Writer
	budget := in.Interpretations.Budget
	fmt.Fprintf(w, "Usage pattern:   %s\n", in.UsagePattern)
	fmt.Fprintf(w, "Budget:          %s (%.0f - %.0f)\n", in.BudgetCategory, budget.Range.Min, budget.Range.Max)
	fmt.Fprintf(w, "Preferred body:  %s\n", strings.Join(in.PreferredBody, ", "))
	if in.MinMileage != nil {
		fmt.Fprintf(w, "Min mileage:     %g kmpl\n", *in.MinMileage)
	} else {
		fmt.Fprintln(w, "Min mileage:     none")
	}
	fmt.Fprintf(w, "Maintenance:     %s\n", in.MaintenanceScore)
	fmt.Fprintf(w, "Priorities:      %s\n", strings.Join(in.Priority, ", "))
	return nil
}

func runScore(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	result, err := s.service.ScoreCars(c.Context, s.requirementID)
	if err != nil {
		return err
	}

	ranked := result.RankedCars
	if top := c.Int("top"); top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, ranked)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%d eligible cars\n", result.Total)
	for i, sc := range ranked {
		fmt.Fprintf(w, "%2d. [%3d] %d %s %s  %.0f\n", i+1, sc.AIScore, sc.Year, sc.Brand, sc.Model, sc.BasePrice)
	}
	return nil
}

func runRecommend(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	rec, err := s.service.Recommend(c.Context, s.requirementID)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, rec)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "%d %s %s  %.0f  (score %d)\n", rec.Car.Year, rec.Car.Brand, rec.Car.Model, rec.Car.Price, rec.Score)
	fmt.Fprintln(w, rec.Explanation)
	return nil
}

func runQuote(c *cli.Context) error {
	var opts []marketplace.ServiceOption
	if year := c.Int("as-of-year"); year > 0 {
		asOf := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		opts = append(opts, marketplace.WithPricer(pricing.NewEngine().WithClock(func() time.Time { return asOf })))
	}

	s, err := newSession(c, opts...)
	if err != nil {
		return err
	}
	q, err := s.service.GenerateQuotation(c.Context, s.requirementID)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(c.App.Writer, q)
	}

	w := c.App.Writer
	b := q.PricingBreakdown
	fmt.Fprintf(w, "Quotation %s\n", q.ID)
	if q.Car != nil {
		fmt.Fprintf(w, "Car:             %d %s %s (score %d)\n", q.Car.Year, q.Car.Brand, q.Car.Model, q.AIScore)
	}
	fmt.Fprintf(w, "Base price:      %.0f\n", b.BasePrice)
	fmt.Fprintf(w, "Depreciation:    %.0f%% (%d years)\n", b.DepreciationPercent*100, b.Age)
	fmt.Fprintf(w, "After dep.:      %.2f\n", b.PriceAfterDepreciation)
	fmt.Fprintf(w, "Mileage factor:  %.2f\n", b.MileageFactor)
	fmt.Fprintf(w, "Demand factor:   %.2f\n", b.DemandFactor)
	fmt.Fprintf(w, "Final price:     %.0f\n", q.FinalPrice)
	fmt.Fprintln(w, q.Explanation)
	return nil
}

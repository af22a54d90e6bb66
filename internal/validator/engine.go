package validator

import (
	"context"

	"go.uber.org/zap"

	"orderscan/internal/domain"
	"orderscan/internal/validator/order"
)

// Outcome is the result of evaluating a record table.
type Outcome struct {
	// Anomalies holds every record failing at least one anomaly rule, in
	// table order and unmodified.
	Anomalies []domain.OrderRecord
	// Diagnostics lists records failing a required-field rule.
	Diagnostics []domain.Diagnostic
}

// Engine runs the registered rules over a record table.
type Engine struct {
	registry *Registry
	log      *zap.Logger
}

// NewEngine creates a new rule engine.
func NewEngine(registry *Registry, log *zap.Logger) *Engine {
	return &Engine{registry: registry, log: log.Named("validator.engine")}
}

// Evaluate applies every rule to every record. An empty outcome is valid.
func (e *Engine) Evaluate(ctx context.Context, records []domain.OrderRecord) (*Outcome, error) {
	out := &Outcome{
		Anomalies:   []domain.OrderRecord{},
		Diagnostics: []domain.Diagnostic{},
	}
	rules := e.registry.All()

	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := &records[i]
		flagged := false

		for _, v := range rules {
			for _, res := range v.Validate(ctx, rec) {
				if res.Passed {
					continue
				}
				switch v.RuleType() {
				case domain.RuleTypeAnomaly:
					flagged = true
				case domain.RuleTypeRequired:
					out.Diagnostics = append(out.Diagnostics, domain.Diagnostic{
						RuleKey:   v.RuleKey(),
						PageIndex: rec.PageIndex,
						ItemIndex: rec.ItemIndex,
						Field:     res.FieldPath,
						Message:   res.Message,
					})
				}
			}
		}

		if flagged {
			out.Anomalies = append(out.Anomalies, *rec)
		}
	}

	e.log.Debug("records evaluated",
		zap.Int("records", len(records)),
		zap.Int("rules", len(rules)),
		zap.Int("anomalies", len(out.Anomalies)),
		zap.Int("diagnostics", len(out.Diagnostics)),
	)
	return out, nil
}

func orderRules(threshold int) []Validator {
	builtin := order.BuiltinRules(threshold)
	out := make([]Validator, 0, len(builtin))
	for _, r := range builtin {
		out = append(out, r)
	}
	return out
}

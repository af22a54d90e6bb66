package order

import (
	"context"

	"orderscan/internal/domain"
)

// ValidationResult is the outcome of one rule on one record. Passed is false
// when the record is flagged.
type ValidationResult struct {
	Passed        bool
	FieldPath     string
	ExpectedValue string
	ActualValue   string
	Message       string
}

// Rule wraps a check function and its metadata for the registry.
type Rule struct {
	key      string
	name     string
	ruleType domain.RuleType
	sev      domain.RuleSeverity
	fn       func(context.Context, *domain.OrderRecord) []ValidationResult
}

func (r *Rule) Validate(ctx context.Context, rec *domain.OrderRecord) []ValidationResult {
	return r.fn(ctx, rec)
}
func (r *Rule) RuleKey() string               { return r.key }
func (r *Rule) RuleName() string              { return r.name }
func (r *Rule) RuleType() domain.RuleType     { return r.ruleType }
func (r *Rule) Severity() domain.RuleSeverity { return r.sev }

// BuiltinRules returns the order rules in evaluation order.
func BuiltinRules(threshold int) []*Rule {
	return []*Rule{
		LargeQtyDirectShip(threshold),
		CustomerNamePresent(),
	}
}

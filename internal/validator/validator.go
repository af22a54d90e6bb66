package validator

import (
	"context"

	"orderscan/internal/domain"
	"orderscan/internal/validator/order"
)

// Validator is the interface for a single record rule.
type Validator interface {
	Validate(ctx context.Context, rec *domain.OrderRecord) []order.ValidationResult
	RuleKey() string
	RuleName() string
	RuleType() domain.RuleType
	Severity() domain.RuleSeverity
}

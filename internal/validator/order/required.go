package order

import (
	"context"
	"fmt"

	"orderscan/internal/domain"
)

type requiredField struct {
	key     string
	name    string
	field   string
	extract func(*domain.OrderRecord) string
}

// CustomerNamePresent reports records whose customer name was not recovered.
func CustomerNamePresent() *Rule {
	return requiredRule(requiredField{
		key:     "customer_name_present",
		name:    "Customer Name Present",
		field:   domain.ColCustomerName,
		extract: func(r *domain.OrderRecord) string { return r.CustomerName },
	})
}

func requiredRule(f requiredField) *Rule {
	return &Rule{
		key:      f.key,
		name:     f.name,
		ruleType: domain.RuleTypeRequired,
		sev:      domain.SeverityWarning,
		fn: func(_ context.Context, rec *domain.OrderRecord) []ValidationResult {
			val := f.extract(rec)
			return []ValidationResult{{
				Passed:        val != "",
				FieldPath:     f.field,
				ExpectedValue: "non-empty value",
				ActualValue:   val,
				Message:       fieldMessage(val != "", f.name, f.field),
			}}
		},
	}
}

func fieldMessage(passed bool, ruleName, field string) string {
	if passed {
		return fmt.Sprintf("%s: %s is present", ruleName, field)
	}
	return fmt.Sprintf("%s: %s is missing or empty", ruleName, field)
}

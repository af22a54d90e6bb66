package validator

// Registry maps rule keys to Validator implementations. Evaluation follows
// registration order.
type Registry struct {
	validators map[string]Validator
	order      []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[string]Validator)}
}

// NewDefaultRegistry registers the built-in order rules with the given
// anomaly threshold.
func NewDefaultRegistry(threshold int) *Registry {
	r := NewRegistry()
	for _, v := range orderRules(threshold) {
		r.Register(v)
	}
	return r
}

// Register adds a validator to the registry. Registering a key twice replaces
// the earlier validator but keeps its position.
func (r *Registry) Register(v Validator) {
	key := v.RuleKey()
	if _, ok := r.validators[key]; !ok {
		r.order = append(r.order, key)
	}
	r.validators[key] = v
}

// Get returns the validator for a given rule key, or nil if not found.
func (r *Registry) Get(key string) Validator {
	return r.validators[key]
}

// All returns all registered validators in registration order.
func (r *Registry) All() []Validator {
	out := make([]Validator, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.validators[key])
	}
	return out
}

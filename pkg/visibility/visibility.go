// Package visibility decides whether a field is shown for a given snapshot of
// form values.
package visibility

import "github.com/goliatone/go-eventform/pkg/form"

// Evaluator determines whether a field should be visible based on a rule
// string and the current values.
type Evaluator interface {
	Eval(fieldName, rule string, values form.Values) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldName, rule string, values form.Values) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldName, rule string, values form.Values) (bool, error) {
	return fn(fieldName, rule, values)
}

// Always shows every field regardless of its rule.
var Always = EvaluatorFunc(func(string, string, form.Values) (bool, error) {
	return true, nil
})

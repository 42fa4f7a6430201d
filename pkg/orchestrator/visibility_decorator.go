package orchestrator

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-eventform/pkg/model"
)

// RuleValidator reports whether a visibility rule compiles.
type RuleValidator interface {
	Validate(rule string) error
}

// CheckVisibilityRules fails model construction when a field's visibility
// rule does not compile or references a field the model does not define.
func CheckVisibilityRules(validator RuleValidator) model.Decorator {
	return model.DecoratorFunc(func(form *model.FormModel) error {
		if form == nil || validator == nil {
			return nil
		}
		for _, field := range form.Fields {
			rule := strings.TrimSpace(field.VisibleWhen)
			if rule == "" {
				continue
			}
			if err := validator.Validate(rule); err != nil {
				return fmt.Errorf("visibility rule for %q: %w", field.Name, err)
			}
			for _, ref := range ruleReferences(rule) {
				if _, ok := form.Field(ref); !ok {
					return fmt.Errorf("visibility rule for %q references unknown field %q", field.Name, ref)
				}
			}
		}
		return nil
	})
}

// ruleReferences lists the identifiers a rule reads, skipping quoted
// literals, numbers, and the boolean keywords.
func ruleReferences(rule string) []string {
	var (
		refs  []string
		quote rune
		ident strings.Builder
	)
	flush := func() {
		if ident.Len() == 0 {
			return
		}
		word := ident.String()
		ident.Reset()
		switch word {
		case "true", "false":
			return
		}
		if word[0] >= '0' && word[0] <= '9' {
			return
		}
		refs = append(refs, word)
	}

	for _, r := range rule {
		if quote != 0 {
			if r == quote {
				quote = 0
			}
			continue
		}
		switch {
		case r == '"' || r == '\'':
			flush()
			quote = r
		case r == '_' || r == '.' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			ident.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return refs
}

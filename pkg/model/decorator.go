package model

// Decorator adjusts a form model after it has been built.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormModel) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}

// Apply runs decorators in order, stopping at the first error.
func Apply(form *FormModel, decorators ...Decorator) error {
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(form); err != nil {
			return err
		}
	}
	return nil
}

// WithLabels overrides field labels by name. Unknown names are ignored.
func WithLabels(labels map[string]string) Decorator {
	return DecoratorFunc(func(form *FormModel) error {
		for i := range form.Fields {
			if label, ok := labels[form.Fields[i].Name]; ok && label != "" {
				form.Fields[i].Label = label
			}
		}
		return nil
	})
}

// WithTitle overrides the form title and description when non-empty.
func WithTitle(title, description string) Decorator {
	return DecoratorFunc(func(form *FormModel) error {
		if title != "" {
			form.Title = title
		}
		if description != "" {
			form.Description = description
		}
		return nil
	})
}

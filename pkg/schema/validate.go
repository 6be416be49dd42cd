package schema

// Validate checks values against the table.
// Names that are not declared in the table are ignored; every declared name
// present in values must validate. Returns an error with all validation
// failures found.
func (t Table[T]) Validate(values map[string]any) error {
	var errs []error
	for _, p := range t {
		value, exists := values[p.Name]
		if !exists {
			continue
		}
		if err := p.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    p.Name,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

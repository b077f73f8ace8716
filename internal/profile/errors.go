package profile

import "fmt"

// MissingOptionError reports a required option absent from a job kind's
// configuration.
type MissingOptionError struct {
	Kind   string
	Option string
}

func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("option %q is required for job kind %q, please check the configuration", e.Option, e.Kind)
}

// InvalidOptionError reports an option that is present but unusable.
type InvalidOptionError struct {
	Kind   string
	Option string
	Err    error
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("option %q of job kind %q is invalid: %v", e.Option, e.Kind, e.Err)
}

func (e *InvalidOptionError) Unwrap() error {
	return e.Err
}

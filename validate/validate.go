package validate

import "fmt"

// ValidationError reports a rejected call argument. It is never retried and
// never reaches the remote API.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate: parameter %q %s", e.Param, e.Reason)
}

// ID checks that the named identifier is non-zero. Negative values are
// accepted: VK addresses communities by the negated group id.
func ID(name string, v int64) error {
	if v == 0 {
		return &ValidationError{Param: name, Reason: "must be a non-zero id"}
	}
	return nil
}

// Count checks that the named count argument is within [1, max].
func Count(name string, v, max int) error {
	if v < 1 || v > max {
		return &ValidationError{Param: name, Reason: fmt.Sprintf("must be between 1 and %d, got %d", max, v)}
	}
	return nil
}

// Method checks that the API method name is present.
func Method(name string) error {
	if name == "" {
		return &ValidationError{Param: "method", Reason: "must not be empty"}
	}
	return nil
}

// All runs the given checks in order and returns the first failure.
func All(checks ...error) error {
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}

// Package validate provides shared validation functions.
package validate

import (
	"errors"
	"fmt"
)

// Required validates a value is present. Whitespace counts as a value;
// tokens and ids are used exactly as entered.
func Required(label, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", label)
	}
	return nil
}

// Topic validates a topic selection is non-empty. The empty value is the
// selector's placeholder option.
func Topic(topic string) error {
	if topic == "" {
		return errors.New("please select a topic to summarize")
	}
	return nil
}

package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidRule marks rules rejected by validation or compilation.
var ErrInvalidRule = errors.New("invalid rule")

const maxRuleNameLength = 100

var ruleNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_ .-]*$`)

// ValidateRule checks the parts of a rule that do not need the CEL compiler.
func ValidateRule(r *Rule) error {
	if r == nil {
		return fmt.Errorf("%w: rule is nil", ErrInvalidRule)
	}
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidRule)
	}
	if err := validateRuleName(r.Name); err != nil {
		return fmt.Errorf("%w: name %q: %w", ErrInvalidRule, r.Name, err)
	}
	if strings.TrimSpace(r.Expression) == "" {
		return fmt.Errorf("%w: expression cannot be empty", ErrInvalidRule)
	}
	return nil
}

func validateRuleName(name string) error {
	if len(name) == 0 {
		return errors.New("cannot be empty")
	}
	if len(name) > maxRuleNameLength {
		return fmt.Errorf("length %d exceeds maximum of %d characters", len(name), maxRuleNameLength)
	}
	if !ruleNamePattern.MatchString(name) {
		return fmt.Errorf("must match pattern %s", ruleNamePattern)
	}
	if strings.TrimSpace(name) != name {
		return errors.New("has leading or trailing whitespace")
	}
	return nil
}

package application

import (
	"fmt"
	"strings"

	"jiraflow/internal/domain"
)

// ValidateRequired checks that a string field is non-empty after trimming.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", fieldName),
		}
	}
	return nil
}

// ValidateStage checks that a string names one of the twelve pipeline
// stages and returns it.
func ValidateStage(fieldName, value string) (domain.Stage, error) {
	stage, ok := domain.ParseStage(value)
	if !ok {
		return "", &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("unknown stage: %s", value),
		}
	}
	return stage, nil
}

// ValidateKey checks the shape of a record key: <PROJECT>-<NUMBER> for
// remote records, LOCAL-<timestamp> for local ones.
func ValidateKey(fieldName, key string) error {
	if err := ValidateRequired(fieldName, key); err != nil {
		return err
	}
	prefix, rest, ok := strings.Cut(key, "-")
	if !ok || prefix == "" || rest == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("malformed key: %s", key),
		}
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			// Project keys may themselves contain hyphens; only the
			// final segment must be numeric.
			if i := strings.LastIndex(key, "-"); i > 0 {
				tail := key[i+1:]
				if tail != "" && allDigits(tail) {
					return nil
				}
			}
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("malformed key: %s", key),
			}
		}
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

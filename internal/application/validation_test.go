package application

import (
	"errors"
	"testing"

	"jiraflow/internal/domain"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{
			name:      "valid value",
			fieldName: "summary",
			value:     "Fix the login flow",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "summary",
			value:     "",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			fieldName: "summary",
			value:     "   ",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
			}
		})
	}
}

func TestValidateStage(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    domain.Stage
		wantErr bool
	}{
		{name: "canonical", value: "EXECUTION", want: domain.StageExecution},
		{name: "lowercase", value: "to do", want: domain.StageTodo},
		{name: "surrounding space", value: "  done  ", want: domain.StageDone},
		{name: "multiword", value: "testing & review", want: domain.StageTesting},
		{name: "unknown", value: "SHIPPING", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateStage("stage", tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStage(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ValidateStage(%q) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "remote key", key: "PROJ-123"},
		{name: "local key", key: "LOCAL-1700000000000"},
		{name: "hyphenated project", key: "MY-PROJ-42"},
		{name: "empty", key: "", wantErr: true},
		{name: "no number", key: "PROJ-", wantErr: true},
		{name: "no hyphen", key: "PROJ123", wantErr: true},
		{name: "non-numeric tail", key: "PROJ-12a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey("key", tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

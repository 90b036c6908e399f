package validator

import (
	"strings"
	"testing"
)

type shiftPayload struct {
	Name      string `json:"name" validate:"required"`
	StartTime string `json:"start_time" validate:"required,len=5"`
	Level     int    `json:"level" validate:"gte=0,lte=100"`
}

func TestValidateStructPasses(t *testing.T) {
	err := ValidateStruct(shiftPayload{Name: "Morning", StartTime: "06:00", Level: 40})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(shiftPayload{Level: 120})
	if err == nil {
		t.Fatal("expected validation failure")
	}

	ve, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(ve) != 3 {
		t.Fatalf("expected 3 failures, got %d: %v", len(ve), ve)
	}
	if !strings.Contains(ve.Error(), "start_time failed on required") {
		t.Fatalf("expected json field name in message, got %q", ve.Error())
	}
}

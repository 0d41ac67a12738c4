package filter

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseApplicationFilter_StatusEquals(t *testing.T) {
	cond, err := ParseApplicationFilter(`status = "CAMPER"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "status = ?" {
		t.Errorf("expected 'status = ?', got %q", cond.Clause)
	}
	if len(cond.Params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(cond.Params))
	}
	if cond.Params[0] != "CAMPER" {
		t.Errorf("expected 'CAMPER', got %v", cond.Params[0])
	}
}

func TestParseApplicationFilter_Empty(t *testing.T) {
	cond, err := ParseApplicationFilter(" ")
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "" || cond.Params != nil {
		t.Fatalf("expected empty condition, got %+v", cond)
	}
}

func TestParseApplicationFilter_AndOr(t *testing.T) {
	cond, err := ParseApplicationFilter(`status = "APPLICANT" AND sub_status = "UNDER_REVIEW"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "(status = ? AND sub_status = ?)" {
		t.Fatalf("Clause = %q", cond.Clause)
	}
	if !reflect.DeepEqual(cond.Params, []any{"APPLICANT", "UNDER_REVIEW"}) {
		t.Fatalf("Params = %v", cond.Params)
	}

	cond, err = ParseApplicationFilter(`season = "2027" OR season = "2028"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "(season = ? OR season = ?)" {
		t.Fatalf("Clause = %q", cond.Clause)
	}
}

func TestParseApplicationFilter_BoolAndTimestamp(t *testing.T) {
	cond, err := ParseApplicationFilter(`paid_invoice = true`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "paid_invoice = ?" {
		t.Fatalf("Clause = %q", cond.Clause)
	}
	if cond.Params[0] != true {
		t.Fatalf("Params = %v", cond.Params)
	}

	cond, err = ParseApplicationFilter(`created_at > timestamp("2027-01-01T00:00:00Z")`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "created_at > ?" {
		t.Fatalf("Clause = %q", cond.Clause)
	}
	if len(cond.Params) != 1 {
		t.Fatalf("Params len = %d", len(cond.Params))
	}
	if !strings.HasPrefix(cond.Params[0].(string), "2027-01-01T00:00:00") {
		t.Fatalf("timestamp param = %v", cond.Params[0])
	}
}

func TestParseApplicationFilter_CompletionRange(t *testing.T) {
	cond, err := ParseApplicationFilter(`completion_percentage >= 50`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "completion_percentage >= ?" {
		t.Fatalf("Clause = %q", cond.Clause)
	}
	if cond.Params[0] != int64(50) {
		t.Fatalf("Params = %v", cond.Params)
	}
}

func TestParseApplicationFilter_InvalidField(t *testing.T) {
	_, err := ParseApplicationFilter(`unknown = "x"`)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseApplicationFilter_InvalidValueFunc(t *testing.T) {
	_, err := ParseApplicationFilter(`created_at = duration("1h")`)
	if err == nil {
		t.Fatal("expected error for unsupported value function")
	}
}

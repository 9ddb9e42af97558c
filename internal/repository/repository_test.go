package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestNumericConversion(t *testing.T) {
	for _, s := range []string{"0", "500", "35.50", "-150", "0.01", "123456789.123"} {
		d := decimal.RequireFromString(s)
		if got := toDecimal(numeric(d)); !got.Equal(d) {
			t.Errorf("%s -> %s", s, got)
		}
	}
}

func TestNullNumeric(t *testing.T) {
	if n := nullNumeric(nil); n.Valid {
		t.Error("nil decimal should map to NULL")
	}
	if d := toNullDecimal(pgtype.Numeric{}); d != nil {
		t.Errorf("NULL -> %s, want nil", d)
	}
	if d := toDecimal(pgtype.Numeric{}); !d.IsZero() {
		t.Errorf("NULL -> %s, want 0", d)
	}

	cost := decimal.RequireFromString("12.5")
	if d := toNullDecimal(nullNumeric(&cost)); d == nil || !d.Equal(cost) {
		t.Errorf("round trip = %v", d)
	}
}

func TestNullString(t *testing.T) {
	if nullString("") != nil {
		t.Error("empty string should map to NULL")
	}
	if got := deref(nullString("cash")); got != "cash" {
		t.Errorf("deref = %q", got)
	}
}

package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCollectionRate(t *testing.T) {
	tests := []struct {
		collected, expected, want string
	}{
		{"0", "0", "0"},
		{"100", "0", "0"},
		{"500", "1500", "33.33"},
		{"1500", "1500", "100"},
		{"2000", "1500", "133.33"},
		{"1", "3", "33.33"},
	}
	for _, tt := range tests {
		got := CollectionRate(d(tt.collected), d(tt.expected))
		if !got.Equal(d(tt.want)) {
			t.Errorf("CollectionRate(%s, %s) = %s, want %s", tt.collected, tt.expected, got, tt.want)
		}
	}
}

func TestPortfolioAddRecomputesRate(t *testing.T) {
	var p PortfolioSummary
	p.Add(EventFinancialSummary{EventID: "a", Expected: d("1000"), Collected: d("1000"), Outstanding: d("0"), Net: d("1000")})
	p.Add(EventFinancialSummary{EventID: "b", Expected: d("3000"), Collected: d("0"), Outstanding: d("3000"), ExpenseTotal: d("200"), Net: d("-200")})

	if p.EventCount != 2 {
		t.Fatalf("EventCount = %d, want 2", p.EventCount)
	}
	if !p.Expected.Equal(d("4000")) || !p.Collected.Equal(d("1000")) || !p.Outstanding.Equal(d("3000")) {
		t.Errorf("totals = %s/%s/%s", p.Expected, p.Collected, p.Outstanding)
	}
	// 1000/4000, not the mean of 100% and 0%.
	if !p.CollectionRate.Equal(d("25")) {
		t.Errorf("CollectionRate = %s, want 25", p.CollectionRate)
	}
	if !p.Net.Equal(d("800")) {
		t.Errorf("Net = %s, want 800", p.Net)
	}
}

func TestPaymentFilterMatch(t *testing.T) {
	p := PaymentRecord{EventID: "e", UserID: "u", Status: PaymentPaid}
	if !(PaymentFilter{}).Match(p) {
		t.Error("empty filter should match")
	}
	if !(PaymentFilter{EventID: "e", Status: PaymentPaid}).Match(p) {
		t.Error("matching filter rejected")
	}
	if (PaymentFilter{Status: PaymentPending}).Match(p) {
		t.Error("status mismatch accepted")
	}
}

func TestUnpaidIsNotAStatus(t *testing.T) {
	if PaymentStatus("unpaid").Valid() {
		t.Error("unpaid must not be accepted as a payment status")
	}
}

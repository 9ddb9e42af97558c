package database

import "testing"

func TestDSN(t *testing.T) {
	c := Config{Host: "db", Port: "5433", User: "ledger", Password: "secret", DBName: "clubledger", SSLMode: "require"}
	want := "host=db port=5433 user=ledger password=secret dbname=clubledger sslmode=require"
	if got := c.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

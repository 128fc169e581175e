package ch

import (
	"context"
	"strings"
	"testing"
)

func TestOpen_BadDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{URL: "://not-a-dsn"})
	if err == nil {
		t.Fatalf("Open expected error for malformed DSN")
	}
}

func TestNilConnection_Guards(t *testing.T) {
	t.Parallel()

	var c *CH
	if err := c.Insert(context.Background(), "t", [][]any{{1}}); err == nil {
		t.Fatalf("Insert on nil client should error")
	}
	if _, err := c.Query(context.Background(), "SELECT 1"); err == nil {
		t.Fatalf("Query on nil client should error")
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("Ping on nil client should error")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on nil client should be a no op, got %v", err)
	}
}

func TestBuildClientInfo(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo("pipeline", "reviewflow-test")
	if len(ci.Products) == 0 {
		t.Fatalf("expected products to be populated")
	}
	found := false
	for _, p := range ci.Products {
		if p.Name == "role" && p.Version == "pipeline" {
			found = true
		}
		if strings.TrimSpace(p.Name) == "" {
			t.Fatalf("empty product name in client info")
		}
	}
	if !found {
		t.Fatalf("role product missing from client info: %+v", ci.Products)
	}
}

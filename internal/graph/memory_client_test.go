package graph

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryClientRoutesReads(t *testing.T) {
	mem := NewMemoryClient().
		OnRead("MATCH (u:User", Result{Records: []Record{{"userId": "u1"}}}).
		FailRead("MEMBER_OF", errors.New("boom"))

	res, err := mem.ExecuteRead(context.Background(), "MATCH (u:User {userId: $userId}) RETURN u", map[string]any{"userId": "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0]["userId"] != "u1" {
		t.Fatalf("unexpected records: %+v", res.Records)
	}

	if _, err := mem.ExecuteRead(context.Background(), "MATCH (u)-[:MEMBER_OF]->(t)", nil); err == nil {
		t.Fatalf("expected routed failure")
	}

	res, err = mem.ExecuteRead(context.Background(), "MATCH (x) RETURN x", nil)
	if err != nil || len(res.Records) != 0 {
		t.Fatalf("expected empty result for unrouted read, got %+v, %v", res, err)
	}
	if got := len(mem.ReadCalls()); got != 3 {
		t.Fatalf("expected 3 recorded reads, got %d", got)
	}
}

func TestMemoryClientWriteCallsAreCopied(t *testing.T) {
	mem := NewMemoryClient()
	params := map[string]any{"id": "c1"}
	if _, err := mem.ExecuteWrite(context.Background(), "MERGE (c:Contact)", params); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params["id"] = "mutated"

	calls := mem.WriteCalls()
	if len(calls) != 1 || calls[0].Params["id"] != "c1" {
		t.Fatalf("expected params snapshot, got %+v", calls)
	}
}

func TestMemoryClientWriteError(t *testing.T) {
	mem := NewMemoryClient().WithWriteError(errors.New("down"))
	if _, err := mem.ExecuteWrite(context.Background(), "MERGE (c)", nil); err == nil {
		t.Fatalf("expected write error")
	}
	if len(mem.WriteCalls()) != 0 {
		t.Fatalf("failed writes must not be recorded")
	}
}

func TestMemoryClientCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemoryClient().ExecuteRead(ctx, "MATCH (n)", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

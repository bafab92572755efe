package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vanshika/warmpath/internal/domain"
	"github.com/vanshika/warmpath/internal/repository"
)

func TestBulkIngestor_IngestDataset(t *testing.T) {
	store := repository.NewSnapshotStore(domain.Dataset{})
	svc := newIngestService(store, time.Now())
	ds := introDataset()

	stats, err := NewBulkIngestor(svc, 3).IngestDataset(context.Background(), ds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := IngestStats{Users: 3, Contacts: 3, Relationships: 3, Teams: 1, Shares: 1}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}

	// The ingested store answers searches like the source dataset.
	search := newTestService(&stubRepository{SnapshotStore: store}, nil)
	paths, err := search.FindPaths(context.Background(), FindPathsParams{UserID: "u-alice", TargetContactID: "c-dana", MaxHops: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected the team path after ingestion, got %d", len(paths))
	}
}

func TestBulkIngestor_AggregatesErrors(t *testing.T) {
	store := repository.NewSnapshotStore(domain.Dataset{})
	svc := newIngestService(store, time.Now())
	ds := domain.Dataset{
		Users: []domain.User{{ID: "u1"}},
		Contacts: []domain.Contact{
			{ID: "c1", OwnerUserID: "u1"},
			{ID: "c2", OwnerUserID: "u-missing"},
			{ID: "", OwnerUserID: "u1"},
		},
		Relationships: []domain.Relationship{{ID: "r1", OwnerUserID: "u1", ContactAID: "c1", IsUserRelationship: true}},
	}

	stats, err := NewBulkIngestor(svc, 2).IngestDataset(context.Background(), ds)
	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("expected TaskError, got %v", err)
	}
	if len(taskErr.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(taskErr.Errors))
	}
	if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected both causes to be reachable, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "multiple errors:") {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if stats.Contacts != 1 || stats.Relationships != 0 {
		t.Fatalf("expected the relationship phase to be skipped, got %+v", stats)
	}
}

func TestBulkIngestor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := newIngestService(repository.NewSnapshotStore(domain.Dataset{}), time.Now())
	_, err := NewBulkIngestor(svc, 2).IngestDataset(ctx, introDataset())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/vanshika/warmpath/internal/domain"
	"github.com/vanshika/warmpath/internal/metrics"
)

// TaskError accumulates multiple errors produced during bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	b.WriteString("multiple errors:")
	for _, err := range e.Errors {
		b.WriteString(" ")
		b.WriteString(err.Error())
		b.WriteString(";")
	}
	return b.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// IngestStats counts the records written by IngestDataset.
type IngestStats struct {
	Users         int
	Contacts      int
	Relationships int
	Teams         int
	Shares        int
}

// BulkIngestor loads datasets through IntroService using a worker pool.
type BulkIngestor struct {
	service *IntroService
	workers int
}

// NewBulkIngestor creates a new BulkIngestor instance with the provided concurrency.
func NewBulkIngestor(service *IntroService, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = 4
	}
	return &BulkIngestor{
		service: service,
		workers: workers,
	}
}

// IngestDataset writes ds in dependency order: users, then contacts and
// teams, then relationships and shares. Each phase runs concurrently and a
// phase's failures stop later phases.
func (bi *BulkIngestor) IngestDataset(ctx context.Context, ds domain.Dataset) (IngestStats, error) {
	var stats IngestStats

	n, err := bi.run(ctx, "user", len(ds.Users), func(i int) error {
		return bi.service.UpsertUser(ctx, userInputFrom(ds.Users[i]))
	})
	stats.Users = n
	if err != nil {
		return stats, err
	}

	n, err = bi.run(ctx, "contact", len(ds.Contacts), func(i int) error {
		return bi.service.UpsertContact(ctx, contactInputFrom(ds.Contacts[i]))
	})
	stats.Contacts = n
	if err != nil {
		return stats, err
	}

	n, err = bi.run(ctx, "team", len(ds.Teams), func(i int) error {
		return bi.service.UpsertTeam(ctx, teamInputFrom(ds.Teams[i]))
	})
	stats.Teams = n
	if err != nil {
		return stats, err
	}

	n, err = bi.run(ctx, "relationship", len(ds.Relationships), func(i int) error {
		return bi.service.UpsertRelationship(ctx, relationshipInputFrom(ds.Relationships[i]))
	})
	stats.Relationships = n
	if err != nil {
		return stats, err
	}

	n, err = bi.run(ctx, "share", len(ds.Shares), func(i int) error {
		return bi.service.ShareContact(ctx, shareInputFrom(ds.Shares[i]))
	})
	stats.Shares = n
	return stats, err
}

// run calls workerFn for every index in [0, total) and returns how many calls
// succeeded.
func (bi *BulkIngestor) run(ctx context.Context, kind string, total int, workerFn func(idx int) error) (int, error) {
	if total == 0 {
		return 0, nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
				continue
			}
			mu.Lock()
			succeeded++
			mu.Unlock()
			metrics.IngestedRecords.WithLabelValues(kind).Inc()
		}
	}

	for i := 0; i < bi.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return succeeded, err
	}

	var taskErr TaskError
	for err := range errCh {
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return succeeded, err
		}
		taskErr.append(err)
	}
	return succeeded, taskErr.asError()
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func userInputFrom(u domain.User) UserInput {
	return UserInput{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: timePtr(u.CreatedAt),
		UpdatedAt: timePtr(u.UpdatedAt),
	}
}

func contactInputFrom(c domain.Contact) ContactInput {
	return ContactInput{
		ID:          c.ID,
		OwnerUserID: c.OwnerUserID,
		Name:        c.Name,
		Email:       c.Email,
		Company:     c.Company,
		Title:       c.Title,
		Industry:    c.Industry,
		CreatedAt:   timePtr(c.CreatedAt),
		UpdatedAt:   timePtr(c.UpdatedAt),
	}
}

func relationshipInputFrom(r domain.Relationship) RelationshipInput {
	return RelationshipInput{
		ID:                 r.ID,
		OwnerUserID:        r.OwnerUserID,
		ContactAID:         r.ContactAID,
		ContactBID:         r.ContactBID,
		IsUserRelationship: r.IsUserRelationship,
		RelationshipType:   r.RelationshipType,
		Strength:           r.Strength,
		Verified:           r.Verified,
		AIInferred:         r.AIInferred,
		Confidence:         r.Confidence,
		UpdatedAt:          timePtr(r.UpdatedAt),
	}
}

func teamInputFrom(t domain.Team) TeamInput {
	return TeamInput{
		ID:        t.ID,
		Name:      t.Name,
		MemberIDs: t.MemberIDs,
		CreatedAt: timePtr(t.CreatedAt),
	}
}

func shareInputFrom(s domain.TeamShare) ShareInput {
	return ShareInput{
		TeamID:    s.TeamID,
		ContactID: s.ContactID,
		Visible:   s.Visible,
		SharedAt:  timePtr(s.SharedAt),
	}
}

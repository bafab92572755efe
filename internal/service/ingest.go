package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vanshika/warmpath/internal/domain"
	"github.com/vanshika/warmpath/internal/pathfinder"
)

// UpsertUser normalises and persists a user.
func (s *IntroService) UpsertUser(ctx context.Context, input UserInput) error {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	createdAt, updatedAt := s.timestamps(input.CreatedAt, input.UpdatedAt)
	return s.repo.UpsertUser(ctx, domain.User{
		ID:        id,
		Name:      sanitizeString(input.Name),
		Email:     normalizeEmail(input.Email),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	})
}

// UpsertContact normalises and persists a contact owned by input.OwnerUserID.
func (s *IntroService) UpsertContact(ctx context.Context, input ContactInput) error {
	id := strings.TrimSpace(input.ID)
	owner := strings.TrimSpace(input.OwnerUserID)
	if id == "" || owner == "" {
		return fmt.Errorf("%w: contact id and owner user id are required", ErrInvalidInput)
	}
	if strings.Contains(id, ":") || id == pathfinder.SelfNodeID {
		return fmt.Errorf("%w: contact id %q is reserved", ErrInvalidInput, id)
	}

	createdAt, updatedAt := s.timestamps(input.CreatedAt, input.UpdatedAt)
	return s.repo.UpsertContact(ctx, domain.Contact{
		ID:          id,
		OwnerUserID: owner,
		Name:        sanitizeString(input.Name),
		Email:       normalizeEmail(input.Email),
		Company:     sanitizeString(input.Company),
		Title:       sanitizeString(input.Title),
		Industry:    sanitizeString(input.Industry),
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	})
}

// UpsertRelationship validates and persists a relationship record.
func (s *IntroService) UpsertRelationship(ctx context.Context, input RelationshipInput) error {
	rel := domain.Relationship{
		ID:                 strings.TrimSpace(input.ID),
		OwnerUserID:        strings.TrimSpace(input.OwnerUserID),
		ContactAID:         strings.TrimSpace(input.ContactAID),
		ContactBID:         strings.TrimSpace(input.ContactBID),
		IsUserRelationship: input.IsUserRelationship,
		RelationshipType:   strings.ToLower(sanitizeString(input.RelationshipType)),
		Strength:           normalizeStrength(input.Strength),
		Verified:           input.Verified,
		AIInferred:         input.AIInferred,
		Confidence:         clampConfidence(input.Confidence),
	}
	if rel.ID == "" || rel.OwnerUserID == "" || rel.ContactAID == "" {
		return fmt.Errorf("%w: relationship id, owner user id and contact a id are required", ErrInvalidInput)
	}
	if rel.IsUserRelationship {
		rel.ContactBID = ""
	} else {
		if rel.ContactBID == "" {
			return fmt.Errorf("%w: contact b id is required unless isUserRelationship is set", ErrInvalidInput)
		}
		if rel.ContactAID == rel.ContactBID {
			return fmt.Errorf("%w: a contact cannot be related to itself", ErrInvalidInput)
		}
	}

	_, rel.UpdatedAt = s.timestamps(nil, input.UpdatedAt)
	return s.repo.UpsertRelationship(ctx, rel)
}

// UpsertTeam persists a team with its full member list.
func (s *IntroService) UpsertTeam(ctx context.Context, input TeamInput) error {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if strings.Contains(id, ":") {
		return fmt.Errorf("%w: team id %q must not contain ':'", ErrInvalidInput, id)
	}

	createdAt, _ := s.timestamps(input.CreatedAt, nil)
	return s.repo.UpsertTeam(ctx, domain.Team{
		ID:        id,
		Name:      sanitizeString(input.Name),
		MemberIDs: dedupeIDs(input.MemberIDs),
		CreatedAt: createdAt,
	})
}

// ShareContact makes a contact visible or hidden to a team.
func (s *IntroService) ShareContact(ctx context.Context, input ShareInput) error {
	teamID := strings.TrimSpace(input.TeamID)
	contactID := strings.TrimSpace(input.ContactID)
	if teamID == "" || contactID == "" {
		return fmt.Errorf("%w: team id and contact id are required", ErrInvalidInput)
	}

	sharedAt, _ := s.timestamps(input.SharedAt, nil)
	return s.repo.ShareContact(ctx, domain.TeamShare{
		TeamID:    teamID,
		ContactID: contactID,
		Visible:   input.Visible,
		SharedAt:  sharedAt,
	})
}

func (s *IntroService) timestamps(created, updated *time.Time) (time.Time, time.Time) {
	now := s.nowFn().UTC()
	createdAt, updatedAt := now, now
	if created != nil {
		createdAt = created.UTC()
	}
	if updated != nil {
		updatedAt = updated.UTC()
	}
	return createdAt, updatedAt
}

package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/warmpath/internal/domain"
	"github.com/vanshika/warmpath/internal/generator"
	"github.com/vanshika/warmpath/internal/service"
)

func writeIntroDataset(t *testing.T) string {
	t.Helper()
	ds := domain.Dataset{
		Users: []domain.User{{ID: "u1", Name: "Alex Chen"}},
		Contacts: []domain.Contact{
			{ID: "c1", OwnerUserID: "u1", Name: "Mark Lee", Company: "TechCorp", Title: "Engineer"},
			{ID: "c2", OwnerUserID: "u1", Name: "Sarah Kim", Company: "Globex", Title: "CFO"},
		},
		Relationships: []domain.Relationship{
			{ID: "r1", OwnerUserID: "u1", ContactAID: "c1", IsUserRelationship: true, Strength: 4, Verified: true},
			{ID: "r2", OwnerUserID: "u1", ContactAID: "c1", ContactBID: "c2", Strength: 5, Verified: true},
		},
	}
	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, generator.WriteDataset(ds, path))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchOverDataset(t *testing.T) {
	path := writeIntroDataset(t)

	out, err := execute(t, "--dataset", path, "search", "--user", "u1", "Sarah")
	require.NoError(t, err)

	var result service.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Matched)
	require.NotNil(t, result.TargetContact)
	assert.Equal(t, "c2", result.TargetContact.ContactID)
	require.Len(t, result.Paths, 1)
	assert.Equal(t, 2, result.Paths[0].Hops)
	assert.Equal(t, 40, result.Paths[0].EstimatedSuccessRate)
}

func TestFindOverDataset(t *testing.T) {
	path := writeIntroDataset(t)

	out, err := execute(t, "--dataset", path, "find", "--user", "u1", "--target", "c1")
	require.NoError(t, err)

	var paths []service.PathResult
	require.NoError(t, json.Unmarshal([]byte(out), &paths))
	require.Len(t, paths, 1)
	assert.Equal(t, 1, paths[0].Hops)
}

func TestFindRequiresTarget(t *testing.T) {
	_, err := execute(t, "--dataset", writeIntroDataset(t), "find", "--user", "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target")
}

func TestDatagenThenDryRunIngest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.json")

	out, err := execute(t, "datagen", "--out", path, "--users", "5", "--contacts", "6", "--teams", "2", "--team-size", "3", "--seed", "11")
	require.NoError(t, err)
	assert.Contains(t, out, "5 users, 30 contacts")

	out, err = execute(t, "ingest", "--dry-run", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ingested 5 users, 30 contacts, 2 teams"), out)
}

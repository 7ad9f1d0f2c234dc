//go:build !integration

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

func TestLoadCandidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "candidates.json")
	payload := `[
		{"label": "Bedroom", "dimensions": ["12'0\"", "10'0\""], "confidence": 0.9},
		{"label": "Kitchen", "dimensions": ["8'", "10'"], "document_id": "other-doc", "page": 2, "confidence": 0.6}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	doc := model.Document{ID: "plan-1", Page: 1}
	candidates, err := loadCandidates(path, doc)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// Missing identity fields are stamped from the document.
	assert.Equal(t, "plan-1", candidates[0].DocumentID)
	assert.Equal(t, 1, candidates[0].Page)

	// Explicit identity fields are kept.
	assert.Equal(t, "other-doc", candidates[1].DocumentID)
	assert.Equal(t, 2, candidates[1].Page)
}

func TestLoadCandidates_MissingFile(t *testing.T) {
	_, err := loadCandidates(filepath.Join(t.TempDir(), "nope.json"), model.Document{})
	require.Error(t, err)
}

func TestLoadCandidates_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not an array"), 0o644))

	_, err := loadCandidates(path, model.Document{})
	require.Error(t, err)
}

func TestDocumentsFromPaths(t *testing.T) {
	docs := documentsFromPaths([]string{
		"/plans/first-floor.png",
		"second_floor.jpeg",
	})

	require.Len(t, docs, 2)
	assert.Equal(t, "first-floor", docs[0].ID)
	assert.Equal(t, "/plans/first-floor.png", docs[0].Path)
	assert.Equal(t, "second_floor", docs[1].ID)
}

//go:build !integration

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

func TestComputeRunStats(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []model.Run{
		{ID: "a", Status: model.RunStatusReported, CreatedAt: base, UpdatedAt: base.Add(4 * time.Second)},
		{ID: "b", Status: model.RunStatusReported, CreatedAt: base, UpdatedAt: base.Add(6 * time.Second)},
		{ID: "c", Status: model.RunStatusFailed, CreatedAt: base, UpdatedAt: base.Add(time.Second)},
		{ID: "d", Status: model.RunStatusValidated, CreatedAt: base, UpdatedAt: base},
	}

	s := computeRunStats(runs)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Reported)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.InFlight)
	// (4s + 6s) / 2 reported runs.
	assert.InDelta(t, 5.0, s.AvgDurSecs, 0.001)
}

func TestComputeRunStats_Empty(t *testing.T) {
	s := computeRunStats(nil)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.AvgDurSecs)
}

func TestFormatRunsList(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:         "0f2c7e1a-9f64-4b2a-8f3d-1c2d3e4f5a6b",
			DocumentID: "floor-plan-1",
			Status:     model.RunStatusReported,
			CreatedAt:  base,
			UpdatedAt:  base.Add(3 * time.Second),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	out := buf.String()
	assert.Contains(t, out, "0f2c7e1a")
	assert.NotContains(t, out, "0f2c7e1a-9f64")
	assert.Contains(t, out, "floor-plan-1")
	assert.Contains(t, out, string(model.RunStatusReported))
	assert.Contains(t, out, "3s")
}

func TestFormatRunsList_TruncatesLongDocumentID(t *testing.T) {
	long := strings.Repeat("x", 40)
	runs := []model.Run{{ID: "abc", DocumentID: long, Status: model.RunStatusReported}}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	assert.Contains(t, buf.String(), strings.Repeat("x", 27)+"...")
	assert.NotContains(t, buf.String(), long)
}

func TestFormatRunStats(t *testing.T) {
	var buf bytes.Buffer
	formatRunStats(&buf, runStats{Total: 3, Reported: 2, Failed: 1, AvgDurSecs: 4.5})

	out := buf.String()
	assert.Contains(t, out, "Total runs:    3")
	assert.Contains(t, out, "Reported:      2")
	assert.Contains(t, out, "Failed:        1")
	assert.Contains(t, out, "4.5s")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "12345678", truncateID("1234567890"))
	assert.Equal(t, "short", truncateID("short"))
}

package validator

import (
	"testing"

	"github.com/aretw0/murmur/internal/runtime"
	"github.com/aretw0/murmur/pkg/domain"
	"github.com/aretw0/murmur/pkg/dsl"
	"github.com/aretw0/murmur/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Code
	}
	return out
}

func TestValidate_CleanGraphs(t *testing.T) {
	t.Run("Demo Thread", func(t *testing.T) {
		report := Validate(graph.Build(dsl.DemoThread()))
		assert.Empty(t, report.Issues)
		assert.NoError(t, report.Err())
	})

	t.Run("Reference Thread", func(t *testing.T) {
		report := Validate(graph.Build([]domain.DialogueRow{
			{Group: 1, Position: 1, Text: "hello", NextPosition: 2},
			{Group: 1, Position: 2, Text: "pick one", OpensChoice: true},
			{Group: 1, Position: 3, Text: "A", IsPlayerOption: true, NextPosition: 10},
			{Group: 1, Position: 4, Text: "B", IsPlayerOption: true, NextPosition: 10},
			{Group: 1, Position: 10, Text: "bye"},
		}))
		assert.Empty(t, report.Issues)
	})
}

func TestValidate_Findings(t *testing.T) {
	tests := []struct {
		name     string
		rows     []domain.DialogueRow
		errors   []string
		warnings []string
	}{
		{
			name: "Dangling Next",
			rows: []domain.DialogueRow{
				{Group: 1, Position: 1, NextPosition: 7},
			},
			warnings: []string{CodeDanglingNext},
		},
		{
			name: "Degenerate Choice",
			rows: []domain.DialogueRow{
				{Group: 1, Position: 1, OpensChoice: true},
				{Group: 1, Position: 2},
			},
			errors:   []string{domain.ReasonDegenerateChoice},
			warnings: []string{CodeUnreachable},
		},
		{
			name: "Line Into Option",
			rows: []domain.DialogueRow{
				{Group: 1, Position: 1, NextPosition: 2},
				{Group: 1, Position: 2, IsPlayerOption: true},
			},
			errors: []string{domain.ReasonOptionInAutoPlay},
		},
		{
			name: "Starts On Option",
			rows: []domain.DialogueRow{
				{Group: 1, Position: 1, IsPlayerOption: true},
			},
			errors: []string{domain.ReasonOptionInAutoPlay},
		},
		{
			name: "Auto-play Cycle",
			rows: []domain.DialogueRow{
				{Group: 1, Position: 1, NextPosition: 2},
				{Group: 1, Position: 2, NextPosition: 3},
				{Group: 1, Position: 3, NextPosition: 2},
			},
			errors: []string{domain.ReasonCycle},
		},
		{
			name: "Loop Through A Choice Is Fine",
			rows: []domain.DialogueRow{
				{Group: 1, Position: 1, OpensChoice: true},
				{Group: 1, Position: 2, IsPlayerOption: true, NextPosition: 1},
				{Group: 1, Position: 3, IsPlayerOption: true},
			},
		},
		{
			name: "Duplicate Position",
			rows: []domain.DialogueRow{
				{Group: 1, Position: 1, Text: "first"},
				{Group: 1, Position: 1, Text: "second"},
			},
			warnings: []string{CodeDuplicate},
		},
		{
			name: "Unreachable Row",
			rows: []domain.DialogueRow{
				{Group: 1, Position: 1},
				{Group: 1, Position: 5},
			},
			warnings: []string{CodeUnreachable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Validate(graph.Build(tt.rows))
			assert.ElementsMatch(t, tt.errors, codes(report.Errors()))
			assert.ElementsMatch(t, tt.warnings, codes(report.Warnings()))
			if len(tt.errors) > 0 {
				assert.Error(t, report.Err())
			} else {
				assert.NoError(t, report.Err())
			}
		})
	}
}

func TestValidate_CycleMessage(t *testing.T) {
	report := Validate(graph.Build([]domain.DialogueRow{
		{Group: 3, Position: 1, NextPosition: 2},
		{Group: 3, Position: 2, NextPosition: 3},
		{Group: 3, Position: 3, NextPosition: 2},
	}))
	require.Len(t, report.Errors(), 1)
	issue := report.Errors()[0]
	assert.Equal(t, 3, issue.Group)
	assert.Equal(t, 2, issue.Position)
	assert.Contains(t, issue.Message, "2 -> 3 -> 2")
	assert.Contains(t, report.Err().Error(), "found 1 errors")
}

func TestValidate_HonorsOfferCap(t *testing.T) {
	rows := []domain.DialogueRow{
		{Group: 1, Position: 1, OpensChoice: true},
		{Group: 1, Position: 2, IsPlayerOption: true},
		{Group: 1, Position: 3, IsPlayerOption: true},
	}

	assert.Empty(t, Validate(graph.Build(rows)).Issues)

	report := Validate(graph.Build(rows), runtime.WithMaxOffered(1))
	require.Len(t, report.Warnings(), 1)
	assert.Equal(t, CodeUnreachable, report.Warnings()[0].Code)
	assert.Equal(t, 3, report.Warnings()[0].Position)
}

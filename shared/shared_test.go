package shared_test

import (
	"context"
	"testing"

	"wsb/shared"
	"wsb/shared/constant"
	"wsb/shared/dto"
	"wsb/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		family   string
		parts    []any
		expected string
	}{
		{name: "family only", family: "categories", expected: "categories"},
		{name: "single part", family: "heatmap", parts: []any{"2025-01-10"}, expected: "heatmap:2025-01-10"},
		{name: "mixed parts", family: "slots", parts: []any{int64(7), "2025-01-10"}, expected: "slots:7:2025-01-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.BuildCacheKey(tt.family, tt.parts...))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total", total: 0, limit: 10, expected: 1},
		{name: "zero limit", total: 10, limit: 0, expected: 1},
		{name: "exact division", total: 20, limit: 10, expected: 2},
		{name: "remainder", total: 21, limit: 10, expected: 3},
		{name: "fewer than limit", total: 3, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID(int64(42), "id", "reservation")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(reservation.id = :id)", where)
	assert.Equal(t, map[string]any{"id": int64(42)}, args)
	assert.Len(t, group.Filters, 1)
	assert.Equal(t, dto.FilterOperatorEq, group.Filters[0].(dto.Filter).Operator) //nolint:forcetypeassert
}

func TestActor(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyActorID, "A")
	ctx = context.WithValue(ctx, constant.ContextKeyIsAdmin, true)

	actorID, isAdmin := shared.Actor(ctx)
	assert.Equal(t, "A", actorID)
	assert.True(t, isAdmin)

	actorID, isAdmin = shared.Actor(context.Background())
	assert.Empty(t, actorID)
	assert.False(t, isAdmin)
}

func TestParseID(t *testing.T) {
	id, err := shared.ParseID("17")
	require.NoError(t, err)
	assert.Equal(t, int64(17), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := shared.ParseID(raw)
		assert.Equal(t, failure.ReasonInvalidRequest, failure.GetReason(err), raw)
	}
}

package reconcile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertAdd_NewThenIncrement(t *testing.T) {
	t.Parallel()

	p := uuid.New()

	lines := UpsertAdd(nil, p, 2)
	require.Len(t, lines, 1)
	assert.Equal(t, p, lines[0].ProductID)
	assert.Equal(t, 2, lines[0].Quantity)

	lines = UpsertAdd(lines, p, 3)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestUpsertAdd_OnePerProductAndSumOfDeltas(t *testing.T) {
	t.Parallel()

	a, b, c := uuid.New(), uuid.New(), uuid.New()

	var lines []Line
	deltas := []struct {
		p uuid.UUID
		d int
	}{
		{a, 1}, {b, 4}, {a, 2}, {c, 7}, {b, -1}, {a, 3},
	}
	for _, step := range deltas {
		lines = UpsertAdd(lines, step.p, step.d)
	}

	require.Len(t, lines, 3)
	// insertion order preserved
	assert.Equal(t, []uuid.UUID{a, b, c}, []uuid.UUID{lines[0].ProductID, lines[1].ProductID, lines[2].ProductID})
	assert.Equal(t, 6, lines[0].Quantity)
	assert.Equal(t, 3, lines[1].Quantity)
	assert.Equal(t, 7, lines[2].Quantity)
}

func TestSetQuantity_Replace(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	lines := []Line{{a, 2}, {b, 5}}

	lines, ok := SetQuantity(lines, b, 9)
	require.True(t, ok)
	require.Len(t, lines, 2)
	assert.Equal(t, 9, lines[1].Quantity)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestSetQuantity_ZeroOrBelowDeletes(t *testing.T) {
	t.Parallel()

	a, b, c := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name string
		qty  int
	}{
		{name: "zero", qty: 0},
		{name: "negative", qty: -4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lines := []Line{{a, 1}, {b, 2}, {c, 3}}
			lines, ok := SetQuantity(lines, b, tt.qty)
			require.True(t, ok)
			require.Len(t, lines, 2)
			// unaffected entries keep their relative order
			assert.Equal(t, a, lines[0].ProductID)
			assert.Equal(t, c, lines[1].ProductID)
		})
	}
}

func TestSetQuantity_MissingProduct(t *testing.T) {
	t.Parallel()

	lines := []Line{{uuid.New(), 2}}
	out, ok := SetQuantity(lines, uuid.New(), 5)
	assert.False(t, ok)
	assert.Equal(t, lines, out)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	a, b := uuid.New(), uuid.New()
	lines := []Line{{a, 2}, {b, 5}}

	lines, ok := Remove(lines, a)
	require.True(t, ok)
	require.Len(t, lines, 1)
	assert.Equal(t, b, lines[0].ProductID)

	// removing an absent product signals not-found and changes nothing
	again, ok := Remove(lines, a)
	assert.False(t, ok)
	assert.Equal(t, lines, again)
}

package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine(t *testing.T) {
	a := Record{Lines: 10, Precise: 6, Imprecise: 2, Any: 1, Empty: 1, Unanalyzed: 0}
	b := Record{Lines: 5, Precise: 5}
	c := Record{Lines: 20, Precise: 10, Imprecise: 5, Empty: 5, Unanalyzed: 3}

	assert.Equal(t, Record{Lines: 15, Precise: 11, Imprecise: 2, Any: 1, Empty: 1}, Combine(a, b))

	t.Run("commutative", func(t *testing.T) {
		assert.Equal(t, Combine(a, b), Combine(b, a))
	})
	t.Run("associative", func(t *testing.T) {
		assert.Equal(t, Combine(Combine(a, b), c), Combine(a, Combine(b, c)))
	})
	t.Run("identity", func(t *testing.T) {
		assert.Equal(t, a, Combine(Record{}, a))
		assert.Equal(t, a, Combine(a, Record{}))
	})
	t.Run("inputs untouched", func(t *testing.T) {
		before := a
		_ = Combine(a, c)
		assert.Equal(t, before, a)
	})
}

func TestSum(t *testing.T) {
	assert.Equal(t, Record{}, Sum())
	r := Record{Lines: 3, Precise: 1, Any: 2}
	assert.Equal(t, Record{Lines: 9, Precise: 3, Any: 6}, Sum(r, r, r))
	assert.Equal(t, Sum(r, r), r.Add(r))
}

func TestRecordTuple(t *testing.T) {
	r := Record{Lines: 1, Precise: 2, Imprecise: 3, Any: 4, Empty: 5, Unanalyzed: 6}
	assert.Equal(t, [RecordFields]int{1, 2, 3, 4, 5, 6}, r.Tuple())
	assert.Equal(t, r, RecordFromTuple(r.Tuple()))
}

func TestRecordValidate(t *testing.T) {
	assert.NoError(t, Record{}.Validate())
	assert.NoError(t, Record{Lines: 1, Precise: 1}.Validate())

	err := Record{Lines: 4, Empty: -1}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestRecordPreciseRatio(t *testing.T) {
	assert.Zero(t, Record{}.PreciseRatio())
	assert.InDelta(t, 0.25, Record{Lines: 8, Precise: 2}.PreciseRatio(), 1e-9)
}

func TestRecordJSON(t *testing.T) {
	data, err := json.Marshal(Record{Lines: 35, Precise: 21, Imprecise: 7, Any: 1, Empty: 6})
	require.NoError(t, err)
	assert.JSONEq(t, `[35, 21, 7, 1, 6, 0]`, string(data))

	var r Record
	require.NoError(t, json.Unmarshal([]byte(`[1, 2, 3, 4, 5, 6]`), &r))
	assert.Equal(t, Record{Lines: 1, Precise: 2, Imprecise: 3, Any: 4, Empty: 5, Unanalyzed: 6}, r)

	assert.Error(t, json.Unmarshal([]byte(`{"lines": 1}`), &r))
}

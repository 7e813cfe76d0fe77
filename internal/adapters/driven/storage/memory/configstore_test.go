package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("search.max_gap", 5))
	require.NoError(t, store.Set("search.max_gap", 7))

	val, ok := store.Get("search.max_gap")
	assert.True(t, ok)
	assert.Equal(t, 7, val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_NewConfigStoreFrom_Copies(t *testing.T) {
	seed := map[string]any{"search.gap_unit": "words"}
	store := NewConfigStoreFrom(seed)
	seed["search.gap_unit"] = "bytes"

	assert.Equal(t, "words", store.GetString("search.gap_unit"))
}

func TestConfigStore_GetInt(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 42, 42},
		{"int64", int64(42), 42},
		{"float64", float64(42), 42},
		{"numeric string", "42", 42},
		{"non-numeric string", "forty", 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewConfigStoreFrom(map[string]any{"k": tt.value})
			assert.Equal(t, tt.want, store.GetInt("k"))
		})
	}

	assert.Zero(t, NewConfigStore().GetInt("missing"))
}

func TestConfigStore_GetBool(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"bool true", true, true},
		{"bool false", false, false},
		{"string true", "true", true},
		{"string garbage", "yes please", false},
		{"int", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewConfigStoreFrom(map[string]any{"k": tt.value})
			assert.Equal(t, tt.want, store.GetBool("k"))
		})
	}
}

func TestConfigStore_GetString_WrongType(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{"k": 3})
	assert.Empty(t, store.GetString("k"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{
		"strings": []string{"zerowidth", "whitespace"},
		"anys":    []any{"zerowidth", 3, "whitespace"},
		"scalar":  "zerowidth",
	})

	assert.Equal(t, []string{"zerowidth", "whitespace"}, store.GetStringSlice("strings"))
	assert.Equal(t, []string{"zerowidth", "whitespace"}, store.GetStringSlice("anys"))
	assert.Nil(t, store.GetStringSlice("scalar"))
	assert.Nil(t, store.GetStringSlice("missing"))

	got := store.GetStringSlice("strings")
	got[0] = "changed"
	assert.Equal(t, "zerowidth", store.GetStringSlice("strings")[0])
}

func TestConfigStore_Keys_Sorted(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{
		"watch.interval_ms": 100,
		"search.max_gap":    3,
		"preprocess.steps":  []string{},
	})

	assert.Equal(t, []string{"preprocess.steps", "search.max_gap", "watch.interval_ms"}, store.Keys())
	assert.Empty(t, NewConfigStore().Keys())
}

func TestConfigStore_Persistence_NoOps(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Set("search.max_gap", i)
			_ = store.GetInt("search.max_gap")
			_ = store.Keys()
		}()
	}
	wg.Wait()

	_, ok := store.Get("search.max_gap")
	assert.True(t, ok)
}

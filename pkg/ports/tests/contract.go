package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/minibmg/pkg/graph"
	"github.com/aretw0/minibmg/pkg/ports"
)

// ContractGraph builds the small observed model the contract stores.
func ContractGraph(t *testing.T) *graph.Graph {
	t.Helper()
	f := graph.NewFactory()
	x := f.Variable("x", 1)
	s := f.Sample(f.Normal(f.Multiply(x, f.Constant(2)), f.Constant(0.5)))
	require.NoError(t, f.Observe(s, 1.25))
	_, err := f.Query(f.Add(s, x))
	require.NoError(t, err)
	g, err := f.Build()
	require.NoError(t, err)
	return g
}

// GraphStoreContractTest is a reusable test suite that verifies if an
// adapter complies with ports.GraphStore.
func GraphStoreContractTest(t *testing.T, store ports.GraphStore) {
	t.Helper()
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")
	g := ContractGraph(t)

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, g))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		require.Equal(t, g.Len(), loaded.Len())
		for i, n := range g.All() {
			assert.Equal(t, n.Op(), loaded.At(i).Op(), "node %d", i)
			assert.Equal(t, n.Value(), loaded.At(i).Value(), "node %d", i)
			assert.Equal(t, n.Name(), loaded.At(i).Name(), "node %d", i)
		}
		require.Len(t, loaded.Observations(), 1)
		assert.Equal(t, 1.25, loaded.Observations()[0].Value)
		assert.Len(t, loaded.Queries(), 1)
	})

	t.Run("Overwrite", func(t *testing.T) {
		f := graph.NewFactory()
		_, err := f.Query(f.Constant(9))
		require.NoError(t, err)
		small, err := f.Build()
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, name, small))
		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.Len())
		require.NoError(t, store.Save(ctx, name, g))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, ports.ErrGraphNotFound)
	})

	t.Run("Invalid Name", func(t *testing.T) {
		assert.ErrorIs(t, store.Save(ctx, "../escape", g), ports.ErrInvalidName)
		_, err := store.Load(ctx, "")
		assert.ErrorIs(t, err, ports.ErrInvalidName)
		assert.ErrorIs(t, store.Delete(ctx, "a/b"), ports.ErrInvalidName)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, g))
		require.NoError(t, store.Delete(ctx, name))

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, ports.ErrGraphNotFound, "Load after Delete should return ErrGraphNotFound")
		assert.NoError(t, store.Delete(ctx, name), "deleting twice is fine")
	})

	t.Run("List", func(t *testing.T) {
		id1, id2 := name+"-1", name+"-2"
		require.NoError(t, store.Save(ctx, id1, g))
		require.NoError(t, store.Save(ctx, id2, g))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.NotContains(t, names, name)
	})

	t.Run("List Names That Look Temporary", func(t *testing.T) {
		for _, n := range []string{"tmp-model", "tmp.json", "temp"} {
			require.NoError(t, store.Save(ctx, n, g))
		}
		defer func() {
			for _, n := range []string{"tmp-model", "tmp.json", "temp"} {
				_ = store.Delete(ctx, n)
			}
		}()

		_, err := store.Load(ctx, "tmp-model")
		require.NoError(t, err)
		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, "tmp-model")
		assert.Contains(t, names, "tmp.json")
		assert.Contains(t, names, "temp")
	})
}

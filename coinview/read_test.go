package coinview

import (
	"context"
	"sync"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/go-coinview/errors"
	"github.com/bsv-blockchain/go-coinview/model"
	coinstore "github.com/bsv-blockchain/go-coinview/stores/coin"
	"github.com/bsv-blockchain/go-coinview/stores/coin/memory"
	"github.com/bsv-blockchain/go-coinview/ulogger"
)

// countingStore wraps a Store and counts GetCoin calls per outpoint.
type countingStore struct {
	coinstore.Store

	mu   sync.Mutex
	gets map[model.Outpoint]int
}

func newCountingStore(inner coinstore.Store) *countingStore {
	return &countingStore{
		Store: inner,
		gets:  make(map[model.Outpoint]int),
	}
}

func (c *countingStore) GetCoin(ctx context.Context, outpoint *model.Outpoint) (*model.Coin, error) {
	c.mu.Lock()
	c.gets[*outpoint]++
	c.mu.Unlock()

	return c.Store.GetCoin(ctx, outpoint)
}

func (c *countingStore) getCount(outpoint *model.Outpoint) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.gets[*outpoint]
}

func (c *countingStore) totalGets() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, n := range c.gets {
		total += n
	}

	return total
}

// failingStore returns a storage error for every read.
type failingStore struct {
	coinstore.Store
}

func (f *failingStore) GetCoin(_ context.Context, outpoint *model.Outpoint) (*model.Coin, error) {
	return nil, errors.NewStorageError("store is down")
}

// seedStore writes every output of the given transactions to the store.
func seedStore(t *testing.T, store coinstore.Store, height uint32, txs ...*bt.Tx) {
	t.Helper()

	for _, tx := range txs {
		require.NoError(t, coinstore.StoreTxOuts(context.Background(), store, tx, height))
	}
}

func TestReadCoin(t *testing.T) {
	t.Run("store hit populates the view", func(t *testing.T) {
		v := newTestView(t)
		store := newCountingStore(memory.New(ulogger.TestLogger{}))

		parent := newParentTx(t, 1)
		seedStore(t, store, 100, parent)

		outpoint := model.NewOutpoint(*parent.TxIDChainHash(), 0)

		coin, err := v.ReadCoin(context.Background(), store, outpoint)
		require.NoError(t, err)
		require.NotNil(t, coin)
		assert.Equal(t, uint64(1000), coin.Satoshis)
		assert.True(t, v.HasEntry(outpoint))
	})

	t.Run("second read is answered from the view", func(t *testing.T) {
		v := newTestView(t)
		store := newCountingStore(memory.New(ulogger.TestLogger{}))

		parent := newParentTx(t, 1)
		seedStore(t, store, 100, parent)

		outpoint := model.NewOutpoint(*parent.TxIDChainHash(), 0)

		coin1, err := v.ReadCoin(context.Background(), store, outpoint)
		require.NoError(t, err)

		coin2, err := v.ReadCoin(context.Background(), store, outpoint)
		require.NoError(t, err)

		assert.Same(t, coin1, coin2, "the view hands out the same coin, not a copy")
		assert.Equal(t, 1, store.getCount(outpoint), "at most one store read per outpoint")
	})

	t.Run("miss leaves the view untouched", func(t *testing.T) {
		v := newTestView(t)
		store := newCountingStore(memory.New(ulogger.TestLogger{}))

		outpoint := model.NewOutpoint(*newParentTx(t, 1).TxIDChainHash(), 0)

		coin, err := v.ReadCoin(context.Background(), store, outpoint)
		require.NoError(t, err)
		assert.Nil(t, coin)
		assert.False(t, v.Has(&outpoint.TxID))
	})

	t.Run("store failure is surfaced", func(t *testing.T) {
		v := newTestView(t)
		store := &failingStore{}

		outpoint := model.NewOutpoint(*newParentTx(t, 1).TxIDChainHash(), 0)

		_, err := v.ReadCoin(context.Background(), store, outpoint)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrStorage))
	})
}

func TestReadAllInputs(t *testing.T) {
	t.Run("all inputs resolvable", func(t *testing.T) {
		v := newTestView(t)
		store := memory.New(ulogger.TestLogger{})

		parent := newParentTx(t, 3)
		seedStore(t, store, 100, parent)

		child := newSpendingTx(t, parent)

		ok, err := v.ReadAllInputs(context.Background(), store, child)
		require.NoError(t, err)
		assert.True(t, ok)

		for _, input := range child.Inputs {
			assert.True(t, v.HasEntryForInput(input))
		}
	})

	t.Run("partial population is observable", func(t *testing.T) {
		v := newTestView(t)
		store := memory.New(ulogger.TestLogger{})

		present := newParentTx(t, 2)
		missing := newParentTx(t, 1)
		seedStore(t, store, 100, present)

		// three prevouts, one of which does not exist in the store
		child := newSpendingTx(t, present, missing)
		require.Len(t, child.Inputs, 3)

		ok, err := v.ReadAllInputs(context.Background(), store, child)
		require.NoError(t, err)
		assert.False(t, ok)

		// the two resolvable coins are in the view regardless
		assert.True(t, v.HasEntryForInput(child.Inputs[0]))
		assert.True(t, v.HasEntryForInput(child.Inputs[1]))
		assert.False(t, v.HasEntryForInput(child.Inputs[2]))
	})

	t.Run("coinbase has nothing to resolve", func(t *testing.T) {
		v := newTestView(t)

		coinbase, err := bt.NewTxFromString("01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff13030d80092f7461616c2e636f6d2f0000000000ffffffff01f8f2052a010000001976a914a32f7eaae3afd5f73a2d6009b93f91aa11d16eef88ac00000000")
		require.NoError(t, err)

		ok, err := v.ReadAllInputs(context.Background(), memory.New(ulogger.TestLogger{}), coinbase)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestSpendInputs(t *testing.T) {
	// both fetch strategies must produce identical results; 2 inputs stays
	// below the default threshold of 4, 6 inputs is above it
	for name, n := range map[string]int{"concurrent reads": 2, "sequential reads": 6} {
		t.Run(name, func(t *testing.T) {
			v := newTestView(t)
			store := newCountingStore(memory.New(ulogger.TestLogger{}))

			parent := newParentTx(t, n)
			seedStore(t, store, 100, parent)

			child := newSpendingTx(t, parent)
			require.Len(t, child.Inputs, n)

			ok, err := v.SpendInputs(context.Background(), store, child)
			require.NoError(t, err)
			assert.True(t, ok)

			assert.Equal(t, n, v.UndoLen())
			assert.Equal(t, n, store.totalGets())

			for _, input := range child.Inputs {
				entry := v.GetEntryForInput(input)
				require.NotNil(t, entry)
				assert.True(t, entry.IsSpent())
			}

			// the same transaction cannot spend again
			ok, err = v.SpendInputs(context.Background(), store, child)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, n, v.UndoLen())
		})
	}

	t.Run("missing input fails the whole call", func(t *testing.T) {
		v := newTestView(t)
		store := memory.New(ulogger.TestLogger{})

		present := newParentTx(t, 1)
		missing := newParentTx(t, 1)
		seedStore(t, store, 100, present)

		child := newSpendingTx(t, present, missing)

		ok, err := v.SpendInputs(context.Background(), store, child)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("double spend within one transaction is detected", func(t *testing.T) {
		for _, extraInputs := range []int{0, 5} {
			v := newTestView(t)
			store := memory.New(ulogger.TestLogger{})

			parent := newParentTx(t, 1)
			filler := newParentTx(t, extraInputs)
			seedStore(t, store, 100, parent, filler)

			// reference the same prevout twice
			child := bt.NewTx()
			for i := 0; i < 2; i++ {
				require.NoError(t, child.From(parent.TxIDChainHash().String(), 0, parent.Outputs[0].LockingScript.String(), parent.Outputs[0].Satoshis))
			}

			for i := 0; i < extraInputs; i++ {
				require.NoError(t, child.From(filler.TxIDChainHash().String(), uint32(i), filler.Outputs[i].LockingScript.String(), filler.Outputs[i].Satoshis))
			}

			ok, err := v.SpendInputs(context.Background(), store, child)
			require.NoError(t, err)
			assert.False(t, ok, "double spend must fail with %d extra inputs", extraInputs)
		}
	})

	t.Run("store failure aborts before any spend", func(t *testing.T) {
		v := newTestView(t)

		parent := newParentTx(t, 2)
		child := newSpendingTx(t, parent)

		ok, err := v.SpendInputs(context.Background(), &failingStore{}, child)
		require.Error(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, v.UndoLen())
	})

	t.Run("coinbase spends nothing", func(t *testing.T) {
		v := newTestView(t)

		coinbase, err := bt.NewTxFromString("01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff13030d80092f7461616c2e636f6d2f0000000000ffffffff01f8f2052a010000001976a914a32f7eaae3afd5f73a2d6009b93f91aa11d16eef88ac00000000")
		require.NoError(t, err)

		ok, err := v.SpendInputs(context.Background(), memory.New(ulogger.TestLogger{}), coinbase)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0, v.UndoLen())
	})
}

func TestSpendInputsViewOnly(t *testing.T) {
	// coins already in the view are spendable without any store access
	v := newTestView(t)
	store := newCountingStore(memory.New(ulogger.TestLogger{}))

	parent := newParentTx(t, 2)
	v.AddTxOuts(parent, 100)

	child := newSpendingTx(t, parent)

	ok, err := v.SpendInputs(context.Background(), store, child)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, store.totalGets())
}

func TestBatchRead(t *testing.T) {
	v := newTestView(t)
	store := newCountingStore(memory.New(ulogger.TestLogger{}))

	parent := newParentTx(t, 5)
	seedStore(t, store, 100, parent)

	hash := parent.TxIDChainHash()

	prevouts := make([]*model.Outpoint, 5)
	for i := range prevouts {
		prevouts[i] = model.NewOutpoint(*hash, uint32(i))
	}

	require.NoError(t, v.batchRead(context.Background(), store, prevouts, 3))

	for _, outpoint := range prevouts {
		assert.True(t, v.HasEntry(outpoint))
	}

	assert.Equal(t, 5, store.totalGets())

	// empty batch is a no-op
	require.NoError(t, v.batchRead(context.Background(), store, nil, 1))
}

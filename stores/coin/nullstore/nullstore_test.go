package nullstore

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/go-coinview/errors"
	"github.com/bsv-blockchain/go-coinview/model"
)

func TestNullStore(t *testing.T) {
	store, err := NewNullStore()
	require.NoError(t, err)

	var hash chainhash.Hash
	hash[0] = 1

	outpoint := model.NewOutpoint(hash, 0)

	// writes are accepted and discarded
	require.NoError(t, store.SetCoin(context.Background(), outpoint, model.NewCoin(1000, nil, 100, false)))

	_, err = store.GetCoin(context.Background(), outpoint)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCoinNotFound))

	require.NoError(t, store.DeleteCoin(context.Background(), outpoint))

	require.NoError(t, store.SetBlockHeight(10))
	assert.Equal(t, uint32(0), store.GetBlockHeight())

	status, _, err := store.Health(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 200, status)
}

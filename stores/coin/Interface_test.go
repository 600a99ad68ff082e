package coin_test

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsv-blockchain/go-coinview/model"
	coinstore "github.com/bsv-blockchain/go-coinview/stores/coin"
	"github.com/bsv-blockchain/go-coinview/stores/coin/memory"
	"github.com/bsv-blockchain/go-coinview/ulogger"
)

func TestStoreTxOuts(t *testing.T) {
	store := memory.New(ulogger.TestLogger{})

	tx := bt.NewTx()
	require.NoError(t, tx.AddP2PKHOutputFromAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", 1000))
	require.NoError(t, tx.AddP2PKHOutputFromAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", 2000))

	// an op_return output must be skipped
	opReturn, err := bscript.NewFromHexString("006a0b68656c6c6f20776f726c64")
	require.NoError(t, err)
	tx.AddOutput(&bt.Output{Satoshis: 0, LockingScript: opReturn})

	require.NoError(t, coinstore.StoreTxOuts(context.Background(), store, tx, 100))
	assert.Equal(t, 2, store.Len())

	txID := *tx.TxIDChainHash()

	coin, err := store.GetCoin(context.Background(), model.NewOutpoint(txID, 1))
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), coin.Satoshis)
	assert.Equal(t, uint32(100), coin.Height())
	assert.False(t, coin.IsCoinbase())

	_, err = store.GetCoin(context.Background(), model.NewOutpoint(txID, 2))
	require.Error(t, err, "unspendable outputs are never stored")
}

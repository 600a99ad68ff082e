package model

import (
	"bytes"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const p2pkhHex = "76a914a32f7eaae3afd5f73a2d6009b93f91aa11d16eef88ac"

func newTestScript(t *testing.T) *bscript.Script {
	t.Helper()

	script, err := bscript.NewFromHexString(p2pkhHex)
	require.NoError(t, err)

	return script
}

func TestCoinFlags(t *testing.T) {
	coin := NewCoin(5000, newTestScript(t), 100, true)

	assert.True(t, coin.IsCoinbase())
	assert.False(t, coin.IsSpent())
	assert.Equal(t, uint32(100), coin.Height())

	coin.Spend()
	assert.True(t, coin.IsSpent())

	// spending again has no effect
	coin.Spend()
	assert.True(t, coin.IsSpent())

	coin.Unspend()
	assert.False(t, coin.IsSpent())
	assert.True(t, coin.IsCoinbase())
}

func TestCoinClone(t *testing.T) {
	coin := NewCoin(5000, newTestScript(t), 100, false)
	clone := coin.Clone()

	coin.Spend()

	assert.True(t, coin.IsSpent())
	assert.False(t, clone.IsSpent())
	assert.Equal(t, coin.Satoshis, clone.Satoshis)

	var nilCoin *Coin
	assert.Nil(t, nilCoin.Clone())
}

func TestCoinSerialization(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		coin := NewCoin(123456789, newTestScript(t), 820000, true)
		coin.Spend()

		b := coin.Bytes()
		require.Len(t, b, coin.EncodedSize())

		coin2, err := NewCoinFromBytes(b)
		require.NoError(t, err)
		assert.True(t, coin.Equal(coin2))
		assert.True(t, coin2.IsSpent())
		assert.True(t, coin2.IsCoinbase())
		assert.Equal(t, uint32(820000), coin2.Height())
	})

	t.Run("writer and reader", func(t *testing.T) {
		coin := NewCoin(1, newTestScript(t), 0, false)

		var buf bytes.Buffer
		require.NoError(t, coin.Write(&buf))
		require.Equal(t, coin.EncodedSize(), buf.Len())

		coin2, err := NewCoinFromReader(&buf)
		require.NoError(t, err)
		assert.True(t, coin.Equal(coin2))
	})

	t.Run("truncated input", func(t *testing.T) {
		coin := NewCoin(1, newTestScript(t), 0, false)
		b := coin.Bytes()

		_, err := NewCoinFromBytes(b[:len(b)-1])
		require.Error(t, err)
	})
}

func TestCoinEqual(t *testing.T) {
	a := NewCoin(10, newTestScript(t), 1, false)
	b := NewCoin(10, newTestScript(t), 1, false)
	c := NewCoin(11, newTestScript(t), 1, false)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))

	b.Spend()
	assert.False(t, a.Equal(b))

	var nilCoin *Coin
	assert.False(t, a.Equal(nilCoin))
	assert.True(t, nilCoin.Equal(nil))
}

func TestCoinToOutput(t *testing.T) {
	script := newTestScript(t)
	coin := NewCoin(42, script, 5, false)

	out := coin.ToOutput()
	assert.Equal(t, uint64(42), out.Satoshis)
	assert.Equal(t, script, out.LockingScript)
}

package model

import (
	"bytes"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutpointBytes(t *testing.T) {
	hash := chainhash.HashH([]byte("tx"))
	o := NewOutpoint(hash, 7)

	b := o.Bytes()
	require.Len(t, b, 36)

	o2, err := NewOutpointFromBytes(b)
	require.NoError(t, err)
	assert.True(t, o.Equal(o2))
	assert.Equal(t, uint32(7), o2.Index)
}

func TestOutpointBytesInvalidLength(t *testing.T) {
	_, err := NewOutpointFromBytes([]byte{0x01, 0x02})
	require.Error(t, err)
}

func TestOutpointReaderWriter(t *testing.T) {
	hash := chainhash.HashH([]byte("another tx"))
	o := NewOutpoint(hash, 0xffffffff)

	var buf bytes.Buffer
	require.NoError(t, o.Write(&buf))

	o2, err := NewOutpointFromReader(&buf)
	require.NoError(t, err)
	assert.True(t, o.Equal(o2))
}

func TestOutpointString(t *testing.T) {
	hash := chainhash.HashH([]byte("tx"))
	o := NewOutpoint(hash, 3)

	assert.Contains(t, o.String(), ":3")
	assert.Contains(t, o.String(), hash.String())
}

func TestOutpointFromTx(t *testing.T) {
	tx := bt.NewTx()
	require.NoError(t, tx.AddP2PKHOutputFromAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", 1000))

	o := NewOutpointFromTx(tx, 0)
	assert.True(t, o.TxID.IsEqual(tx.TxIDChainHash()))
	assert.Equal(t, uint32(0), o.Index)
}

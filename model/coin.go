package model

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/bscript"

	"github.com/bsv-blockchain/go-coinview/errors"
)

type coinFlags uint8

const (
	// flagCoinbase indicates the output was created by a coinbase transaction.
	flagCoinbase coinFlags = 1 << iota

	// flagSpent indicates the output has been spent within the view that
	// holds it. Spent coins stay in their coin set as tombstones.
	flagSpent
)

// Coin is a single unspent transaction output together with the metadata a
// validator needs: the block height it was created at, whether it came from a
// coinbase transaction and whether it has been spent in the current view.
type Coin struct {
	Satoshis      uint64
	LockingScript *bscript.Script
	height        uint32
	flags         coinFlags
}

// NewCoin creates an unspent Coin.
func NewCoin(satoshis uint64, lockingScript *bscript.Script, height uint32, coinbase bool) *Coin {
	c := &Coin{
		Satoshis:      satoshis,
		LockingScript: lockingScript,
		height:        height,
	}

	if coinbase {
		c.flags |= flagCoinbase
	}

	return c
}

// NewCoinFromOutput creates an unspent Coin from a transaction output.
func NewCoinFromOutput(output *bt.Output, height uint32, coinbase bool) *Coin {
	return NewCoin(output.Satoshis, output.LockingScript, height, coinbase)
}

// Height returns the height of the block the coin was created in.
func (c *Coin) Height() uint32 {
	return c.height
}

// IsCoinbase returns whether the coin was created by a coinbase transaction.
func (c *Coin) IsCoinbase() bool {
	return c.flags&flagCoinbase == flagCoinbase
}

// IsSpent returns whether the coin has been spent in the view holding it.
func (c *Coin) IsSpent() bool {
	return c.flags&flagSpent == flagSpent
}

// Spend marks the coin as spent. Spending an already spent coin has no
// effect.
func (c *Coin) Spend() {
	c.flags |= flagSpent
}

// Unspend clears the spent flag.
func (c *Coin) Unspend() {
	c.flags &^= flagSpent
}

// Clone returns a copy of the coin. The locking script bytes are shared, they
// are never mutated.
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}

	clone := *c

	return &clone
}

// ToOutput returns the coin as a transaction output.
func (c *Coin) ToOutput() *bt.Output {
	return &bt.Output{
		Satoshis:      c.Satoshis,
		LockingScript: c.LockingScript,
	}
}

func (c *Coin) Equal(other *Coin) bool {
	if c == nil || other == nil {
		return c == other
	}

	return c.Satoshis == other.Satoshis &&
		c.height == other.height &&
		c.flags == other.flags &&
		bytes.Equal(c.scriptBytes(), other.scriptBytes())
}

func (c *Coin) scriptBytes() []byte {
	if c.LockingScript == nil {
		return nil
	}

	return *c.LockingScript
}

// EncodedSize returns the number of bytes Write produces.
func (c *Coin) EncodedSize() int {
	scriptLen := uint64(len(c.scriptBytes()))

	// flags + height + satoshis + varint + script
	return 1 + 4 + 8 + bt.VarInt(scriptLen).Length() + int(scriptLen)
}

// Write serializes the coin as flags, height, satoshis and the length
// prefixed locking script.
func (c *Coin) Write(w io.Writer) error {
	if _, err := w.Write([]byte{byte(c.flags)}); err != nil {
		return errors.NewProcessingError("error writing flags", err)
	}

	if err := binary.Write(w, binary.LittleEndian, c.height); err != nil {
		return errors.NewProcessingError("error writing height", err)
	}

	if err := binary.Write(w, binary.LittleEndian, c.Satoshis); err != nil {
		return errors.NewProcessingError("error writing satoshis", err)
	}

	script := c.scriptBytes()

	if _, err := w.Write(bt.VarInt(uint64(len(script))).Bytes()); err != nil {
		return errors.NewProcessingError("error writing script length", err)
	}

	if _, err := w.Write(script); err != nil {
		return errors.NewProcessingError("error writing script", err)
	}

	return nil
}

// Bytes returns the serialized coin.
func (c *Coin) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, c.EncodedSize()))
	_ = c.Write(buf)

	return buf.Bytes()
}

func NewCoinFromReader(r io.Reader) (*Coin, error) {
	c := new(Coin)

	var flags [1]byte
	if _, err := io.ReadFull(r, flags[:]); err != nil {
		return nil, errors.NewStorageError("error reading flags", err)
	}

	c.flags = coinFlags(flags[0])

	if err := binary.Read(r, binary.LittleEndian, &c.height); err != nil {
		return nil, errors.NewStorageError("error reading height", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &c.Satoshis); err != nil {
		return nil, errors.NewStorageError("error reading satoshis", err)
	}

	var scriptLen bt.VarInt
	if _, err := scriptLen.ReadFrom(r); err != nil {
		return nil, errors.NewStorageError("error reading script length", err)
	}

	script := make([]byte, scriptLen)
	if _, err := io.ReadFull(r, script); err != nil {
		return nil, errors.NewStorageError("error reading script", err)
	}

	c.LockingScript = bscript.NewFromBytes(script)

	return c, nil
}

func NewCoinFromBytes(b []byte) (*Coin, error) {
	return NewCoinFromReader(bytes.NewReader(b))
}

package model

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"

	"github.com/bsv-blockchain/go-coinview/errors"
)

const outpointLen = 36

// Outpoint identifies a transaction output: the hash of the transaction that
// created it plus the output index.
type Outpoint struct {
	TxID  chainhash.Hash
	Index uint32
}

// NewOutpoint creates a new Outpoint.
func NewOutpoint(txID chainhash.Hash, index uint32) *Outpoint {
	return &Outpoint{
		TxID:  txID,
		Index: index,
	}
}

// NewOutpointFromTx creates the Outpoint of the given output of tx.
func NewOutpointFromTx(tx *bt.Tx, vout uint32) *Outpoint {
	return &Outpoint{
		TxID:  *tx.TxIDChainHash(),
		Index: vout,
	}
}

// NewOutpointFromInput creates the Outpoint referenced by a transaction input.
func NewOutpointFromInput(input *bt.Input) *Outpoint {
	return &Outpoint{
		TxID:  *input.PreviousTxIDChainHash(),
		Index: input.PreviousTxOutIndex,
	}
}

// NewOutpointFromBytes creates a new Outpoint from a byte slice of exactly 36
// bytes: 32 bytes of transaction ID followed by a little endian uint32 index.
func NewOutpointFromBytes(b []byte) (*Outpoint, error) {
	if len(b) != outpointLen {
		return nil, errors.NewInvalidArgumentError("invalid outpoint length: expected %d bytes, got %d", outpointLen, len(b))
	}

	txID, err := chainhash.NewHash(b[:32])
	if err != nil {
		return nil, errors.NewInvalidArgumentError("failed to create hash from bytes", err)
	}

	return &Outpoint{
		TxID:  *txID,
		Index: binary.LittleEndian.Uint32(b[32:]),
	}, nil
}

// Bytes returns the 36 byte representation of the Outpoint.
func (o *Outpoint) Bytes() []byte {
	serialized := make([]byte, outpointLen)
	copy(serialized, o.TxID[:])
	binary.LittleEndian.PutUint32(serialized[32:], o.Index)

	return serialized
}

func NewOutpointFromReader(r io.Reader) (*Outpoint, error) {
	o := new(Outpoint)

	if _, err := io.ReadFull(r, o.TxID[:]); err != nil {
		return nil, errors.NewStorageError("error reading txid", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &o.Index); err != nil {
		return nil, errors.NewStorageError("error reading index", err)
	}

	return o, nil
}

func (o *Outpoint) Write(w io.Writer) error {
	if _, err := w.Write(o.TxID[:]); err != nil {
		return errors.NewProcessingError("error writing txid", err)
	}

	if err := binary.Write(w, binary.LittleEndian, o.Index); err != nil {
		return errors.NewProcessingError("error writing index", err)
	}

	return nil
}

// String returns the outpoint formatted as "txid:index", txid in the usual
// big endian hex form.
func (o *Outpoint) String() string {
	return fmt.Sprintf("%v:%d", o.TxID, o.Index)
}

func (o *Outpoint) Equal(other *Outpoint) bool {
	return o.TxID.IsEqual(&other.TxID) && o.Index == other.Index
}

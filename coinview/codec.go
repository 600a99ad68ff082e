package coinview

import (
	"io"

	"github.com/bsv-blockchain/go-bt/v2"

	"github.com/bsv-blockchain/go-coinview/errors"
	"github.com/bsv-blockchain/go-coinview/model"
	"github.com/bsv-blockchain/go-coinview/settings"
	"github.com/bsv-blockchain/go-coinview/ulogger"
)

// The undo codec serializes the subset of a view relevant to one
// transaction's inputs: one presence flag byte per input, in input order,
// each followed by the coin's encoding when present. There is no header and
// no length prefix; the transaction's own input list is the schema, so
// decoding must use the same transaction.

const (
	flagAbsent  byte = 0x00
	flagPresent byte = 0x01
)

// EncodedSize returns the number of bytes Encode produces for tx.
func (v *CoinView) EncodedSize(tx *bt.Tx) int {
	size := 0

	for _, input := range tx.Inputs {
		size++

		if coin := v.GetEntryForInput(input); coin != nil {
			size += coin.EncodedSize()
		}
	}

	return size
}

// Encode writes the view's coins for each of tx's inputs to w.
func (v *CoinView) Encode(tx *bt.Tx, w io.Writer) error {
	for i, input := range tx.Inputs {
		coin := v.GetEntryForInput(input)
		if coin == nil {
			if _, err := w.Write([]byte{flagAbsent}); err != nil {
				return errors.NewProcessingError("error writing flag for input %d", i, err)
			}

			continue
		}

		if _, err := w.Write([]byte{flagPresent}); err != nil {
			return errors.NewProcessingError("error writing flag for input %d", i, err)
		}

		if err := coin.Write(w); err != nil {
			return errors.NewProcessingError("error writing coin for input %d", i, err)
		}
	}

	return nil
}

// NewCoinViewFromReader builds a view holding the coins encoded for tx's
// inputs. Must be given the same transaction the data was encoded with.
func NewCoinViewFromReader(logger ulogger.Logger, tSettings *settings.Settings, r io.Reader, tx *bt.Tx) (*CoinView, error) {
	v := New(logger, tSettings)

	for i, input := range tx.Inputs {
		var flag [1]byte
		if _, err := io.ReadFull(r, flag[:]); err != nil {
			return nil, errors.NewStorageError("error reading flag for input %d", i, err)
		}

		switch flag[0] {
		case flagAbsent:
			continue

		case flagPresent:
			coin, err := model.NewCoinFromReader(r)
			if err != nil {
				return nil, errors.NewStorageError("error reading coin for input %d", i, err)
			}

			v.AddEntry(model.NewOutpointFromInput(input), coin)

		default:
			return nil, errors.NewStorageError("invalid flag 0x%02x for input %d", flag[0], i)
		}
	}

	return v, nil
}

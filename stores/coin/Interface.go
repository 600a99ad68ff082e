package coin

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2"

	"github.com/bsv-blockchain/go-coinview/model"
)

// Store is the persistent UTXO store a coin view reads through. There is no
// batch read primitive, a view emulates batching with concurrent single
// reads.
type Store interface {
	// Health reports whether the store is usable. The int is an http style
	// status code.
	Health(ctx context.Context, checkLiveness bool) (int, string, error)

	// GetCoin returns the coin for the given outpoint. Returns a
	// COIN_NOT_FOUND error when the outpoint is unknown.
	GetCoin(ctx context.Context, outpoint *model.Outpoint) (*model.Coin, error)

	// SetCoin inserts or replaces the coin for the given outpoint.
	SetCoin(ctx context.Context, outpoint *model.Outpoint, coin *model.Coin) error

	// DeleteCoin removes the coin for the given outpoint. Deleting an unknown
	// outpoint is not an error.
	DeleteCoin(ctx context.Context, outpoint *model.Outpoint) error

	SetBlockHeight(height uint32) error
	GetBlockHeight() uint32
}

// StoreTxOuts writes every spendable output of tx to the store as an unspent
// coin at the given height.
func StoreTxOuts(ctx context.Context, s Store, tx *bt.Tx, height uint32) error {
	txID := *tx.TxIDChainHash()
	coinbase := tx.IsCoinbase()

	for i, output := range tx.Outputs {
		if model.IsUnspendable(output.LockingScript) {
			continue
		}

		outpoint := model.NewOutpoint(txID, uint32(i))

		if err := s.SetCoin(ctx, outpoint, model.NewCoinFromOutput(output, height, coinbase)); err != nil {
			return err
		}
	}

	return nil
}

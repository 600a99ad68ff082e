package nullstore

import (
	"context"
	"net/http"

	"github.com/bsv-blockchain/go-coinview/errors"
	"github.com/bsv-blockchain/go-coinview/model"
)

// NullStore is an always-empty coin store. Every read misses, every write is
// discarded. Useful for tests and for validating purely view-local
// transactions.
type NullStore struct{}

func NewNullStore() (*NullStore, error) {
	return &NullStore{}, nil
}

func (n *NullStore) Health(_ context.Context, _ bool) (int, string, error) {
	return http.StatusOK, "NullStore", nil
}

func (n *NullStore) GetCoin(_ context.Context, outpoint *model.Outpoint) (*model.Coin, error) {
	return nil, errors.NewCoinNotFoundError("%v not found", outpoint)
}

func (n *NullStore) SetCoin(_ context.Context, _ *model.Outpoint, _ *model.Coin) error {
	return nil
}

func (n *NullStore) DeleteCoin(_ context.Context, _ *model.Outpoint) error {
	return nil
}

func (n *NullStore) SetBlockHeight(_ uint32) error {
	return nil
}

func (n *NullStore) GetBlockHeight() uint32 {
	return 0
}

package memory

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/bsv-blockchain/go-coinview/errors"
	"github.com/bsv-blockchain/go-coinview/model"
	"github.com/bsv-blockchain/go-coinview/ulogger"
)

// Memory is the reference in-process coin store. It hands out clones so the
// caller owns every coin it reads.
type Memory struct {
	logger      ulogger.Logger
	coins       map[model.Outpoint]*model.Coin
	coinsMu     sync.Mutex
	blockHeight atomic.Uint32
}

func New(logger ulogger.Logger) *Memory {
	return &Memory{
		logger: logger,
		coins:  make(map[model.Outpoint]*model.Coin),
	}
}

func (m *Memory) Health(_ context.Context, _ bool) (int, string, error) {
	return http.StatusOK, "Memory Store available", nil
}

func (m *Memory) GetCoin(_ context.Context, outpoint *model.Outpoint) (*model.Coin, error) {
	m.coinsMu.Lock()
	defer m.coinsMu.Unlock()

	coin, ok := m.coins[*outpoint]
	if !ok {
		return nil, errors.NewCoinNotFoundError("%v not found", outpoint)
	}

	return coin.Clone(), nil
}

func (m *Memory) SetCoin(_ context.Context, outpoint *model.Outpoint, coin *model.Coin) error {
	if coin == nil {
		return errors.NewInvalidArgumentError("coin for %v is nil", outpoint)
	}

	m.coinsMu.Lock()
	defer m.coinsMu.Unlock()

	m.coins[*outpoint] = coin.Clone()

	return nil
}

func (m *Memory) DeleteCoin(_ context.Context, outpoint *model.Outpoint) error {
	m.coinsMu.Lock()
	defer m.coinsMu.Unlock()

	delete(m.coins, *outpoint)

	return nil
}

func (m *Memory) SetBlockHeight(height uint32) error {
	m.blockHeight.Store(height)
	return nil
}

func (m *Memory) GetBlockHeight() uint32 {
	return m.blockHeight.Load()
}

// Len returns the number of coins held.
func (m *Memory) Len() int {
	m.coinsMu.Lock()
	defer m.coinsMu.Unlock()

	return len(m.coins)
}

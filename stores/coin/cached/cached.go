package cached

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/bsv-blockchain/go-coinview/model"
	coinstore "github.com/bsv-blockchain/go-coinview/stores/coin"
	"github.com/bsv-blockchain/go-coinview/ulogger"
)

// Store decorates another coin store with a TTL read cache. Misses are not
// cached. Writes and deletes go through to the underlying store and keep the
// cache coherent.
type Store struct {
	logger ulogger.Logger
	store  coinstore.Store
	cache  *ttlcache.Cache[model.Outpoint, *model.Coin]
}

func New(logger ulogger.Logger, store coinstore.Store, ttl time.Duration) *Store {
	cache := ttlcache.New[model.Outpoint, *model.Coin](
		ttlcache.WithTTL[model.Outpoint, *model.Coin](ttl),
	)

	go cache.Start()

	return &Store{
		logger: logger,
		store:  store,
		cache:  cache,
	}
}

func (s *Store) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	return s.store.Health(ctx, checkLiveness)
}

func (s *Store) GetCoin(ctx context.Context, outpoint *model.Outpoint) (*model.Coin, error) {
	if item := s.cache.Get(*outpoint); item != nil {
		return item.Value().Clone(), nil
	}

	coin, err := s.store.GetCoin(ctx, outpoint)
	if err != nil {
		return nil, err
	}

	s.cache.Set(*outpoint, coin.Clone(), ttlcache.DefaultTTL)

	return coin, nil
}

func (s *Store) SetCoin(ctx context.Context, outpoint *model.Outpoint, coin *model.Coin) error {
	if err := s.store.SetCoin(ctx, outpoint, coin); err != nil {
		return err
	}

	s.cache.Set(*outpoint, coin.Clone(), ttlcache.DefaultTTL)

	return nil
}

func (s *Store) DeleteCoin(ctx context.Context, outpoint *model.Outpoint) error {
	if err := s.store.DeleteCoin(ctx, outpoint); err != nil {
		return err
	}

	s.cache.Delete(*outpoint)

	return nil
}

func (s *Store) SetBlockHeight(height uint32) error {
	return s.store.SetBlockHeight(height)
}

func (s *Store) GetBlockHeight() uint32 {
	return s.store.GetBlockHeight()
}

// Stop stops the cache's expiration loop.
func (s *Store) Stop() {
	s.cache.Stop()
}

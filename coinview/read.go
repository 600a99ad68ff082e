package coinview

import (
	"context"

	"github.com/bsv-blockchain/go-bt/v2"
	"golang.org/x/sync/errgroup"

	"github.com/bsv-blockchain/go-coinview/errors"
	"github.com/bsv-blockchain/go-coinview/model"
	coinstore "github.com/bsv-blockchain/go-coinview/stores/coin"
)

// ReadCoin returns the coin at the given outpoint, fetching it from the store
// on a view miss. A coin already in the view is returned without a store
// access, so repeated reads of the same outpoint hit the store at most once.
// A coin absent from both view and store yields (nil, nil); the error is only
// used for store failures.
func (v *CoinView) ReadCoin(ctx context.Context, store coinstore.Store, outpoint *model.Outpoint) (*model.Coin, error) {
	prometheusCoinViewReads.Inc()

	if coin := v.GetEntry(outpoint); coin != nil {
		prometheusCoinViewCacheHits.Inc()
		return coin, nil
	}

	coin, err := store.GetCoin(ctx, outpoint)
	if err != nil {
		if errors.Is(err, errors.ErrCoinNotFound) {
			prometheusCoinViewStoreMisses.Inc()
			return nil, nil
		}

		return nil, errors.NewStorageError("failed to read coin %v", outpoint, err)
	}

	res, cs := v.addEntry(outpoint, coin)
	if res == addSkippedUnspendable {
		return nil, nil
	}

	// First wins: when a concurrent read of the same outpoint got there
	// first, return the coin the view kept.
	return cs.Get(outpoint.Index), nil
}

// ReadAllInputs resolves every input's prevout via ReadCoin and reports
// whether all of them resolved. A missing coin does not stop the remaining
// reads, so the view ends up with every coin that was resolvable.
func (v *CoinView) ReadAllInputs(ctx context.Context, store coinstore.Store, tx *bt.Tx) (bool, error) {
	if tx.IsCoinbase() {
		return true, nil
	}

	all := true

	for _, input := range tx.Inputs {
		coin, err := v.ReadCoin(ctx, store, model.NewOutpointFromInput(input))
		if err != nil {
			return false, err
		}

		if coin == nil {
			all = false
		}
	}

	return all, nil
}

// SpendInputs resolves every input's prevout and marks each spent, recording
// undo data. Returns false when any input is missing or already spent; a
// double spend of the same prevout within tx is always detected because the
// spends are applied in input order after all reads completed.
func (v *CoinView) SpendInputs(ctx context.Context, store coinstore.Store, tx *bt.Tx) (bool, error) {
	if tx.IsCoinbase() {
		return true, nil
	}

	prevouts := make([]*model.Outpoint, len(tx.Inputs))
	for i, input := range tx.Inputs {
		prevouts[i] = model.NewOutpointFromInput(input)
	}

	// Small transactions get their reads issued concurrently; larger ones go
	// one at a time to bound the outstanding store requests.
	maxConcurrency := 1
	if len(prevouts) < v.settings.ConcurrentReadThreshold {
		maxConcurrency = len(prevouts)
	}

	if err := v.batchRead(ctx, store, prevouts, maxConcurrency); err != nil {
		return false, err
	}

	for _, outpoint := range prevouts {
		if !v.SpendOutput(outpoint) {
			v.logger.Debugf("[CoinView] cannot spend %v: missing or already spent", outpoint)
			return false, nil
		}
	}

	return true, nil
}

// batchRead pulls the given prevouts into the view with at most
// maxConcurrency outstanding store reads. All reads complete before the call
// returns, so no spend is ever applied while a read is in flight.
func (v *CoinView) batchRead(ctx context.Context, store coinstore.Store, prevouts []*model.Outpoint, maxConcurrency int) error {
	if len(prevouts) == 0 {
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for _, outpoint := range prevouts {
		outpoint := outpoint

		g.Go(func() error {
			_, err := v.ReadCoin(gCtx, store, outpoint)
			return err
		})
	}

	return g.Wait()
}

package factory

import (
	"context"
	"net/url"

	"github.com/bsv-blockchain/go-coinview/errors"
	"github.com/bsv-blockchain/go-coinview/settings"
	coinstore "github.com/bsv-blockchain/go-coinview/stores/coin"
	"github.com/bsv-blockchain/go-coinview/ulogger"
)

type storeInit func(ctx context.Context, logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (coinstore.Store, error)

var availableStores = map[string]storeInit{}

// NewStore creates the coin store selected by the URL scheme. Wrap the result
// with the cached store when tSettings.CacheTTL should apply.
func NewStore(ctx context.Context, logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (coinstore.Store, error) {
	if storeURL == nil {
		return nil, errors.NewConfigurationError("store url is nil")
	}

	dbInit, ok := availableStores[storeURL.Scheme]
	if !ok {
		return nil, errors.NewConfigurationError("unknown scheme: %s", storeURL.Scheme)
	}

	logger.Infof("[CoinStore] creating %s store", storeURL.Scheme)

	store, err := dbInit(ctx, logger, storeURL, tSettings)
	if err != nil {
		return nil, err
	}

	return store, nil
}

package factory

import (
	"context"
	"net/url"

	"github.com/bsv-blockchain/go-coinview/settings"
	coinstore "github.com/bsv-blockchain/go-coinview/stores/coin"
	"github.com/bsv-blockchain/go-coinview/stores/coin/memory"
	"github.com/bsv-blockchain/go-coinview/ulogger"
)

func init() {
	availableStores["memory"] = func(_ context.Context, logger ulogger.Logger, _ *url.URL, _ *settings.Settings) (coinstore.Store, error) {
		return memory.New(logger), nil
	}
}

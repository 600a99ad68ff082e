package factory

import (
	"context"
	"net/url"

	"github.com/bsv-blockchain/go-coinview/settings"
	coinstore "github.com/bsv-blockchain/go-coinview/stores/coin"
	"github.com/bsv-blockchain/go-coinview/stores/coin/nullstore"
	"github.com/bsv-blockchain/go-coinview/ulogger"
)

func init() {
	availableStores["null"] = func(_ context.Context, _ ulogger.Logger, _ *url.URL, _ *settings.Settings) (coinstore.Store, error) {
		return nullstore.NewNullStore()
	}
}

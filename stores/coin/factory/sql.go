package factory

import (
	"context"
	"net/url"

	"github.com/bsv-blockchain/go-coinview/settings"
	coinstore "github.com/bsv-blockchain/go-coinview/stores/coin"
	"github.com/bsv-blockchain/go-coinview/stores/coin/sql"
	"github.com/bsv-blockchain/go-coinview/ulogger"
)

func init() {
	sqlInit := func(_ context.Context, logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (coinstore.Store, error) {
		return sql.New(logger, storeURL, tSettings)
	}

	availableStores["postgres"] = sqlInit
	availableStores["sqlite"] = sqlInit
	availableStores["sqlitememory"] = sqlInit
}

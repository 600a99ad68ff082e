// Package main provides a small command-line tool for inspecting and
// manipulating a coin store. It can seed a store with the outputs of a raw
// transaction, look up single coins, and run a transaction's inputs through a
// coin view spend.
package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/urfave/cli/v2"

	"github.com/bsv-blockchain/go-coinview/coinview"
	"github.com/bsv-blockchain/go-coinview/model"
	"github.com/bsv-blockchain/go-coinview/settings"
	coinstore "github.com/bsv-blockchain/go-coinview/stores/coin"
	"github.com/bsv-blockchain/go-coinview/stores/coin/cached"
	"github.com/bsv-blockchain/go-coinview/stores/coin/factory"
	"github.com/bsv-blockchain/go-coinview/ulogger"
)

var (
	tSettings = settings.NewSettings()
	logger    = ulogger.New("coinview",
		ulogger.WithLevel(tSettings.LogLevel),
		ulogger.WithLoggerType(tSettings.LoggerType))
)

func main() {
	app := &cli.App{
		Name:  "coinview",
		Usage: "Inspect and manipulate a coin store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "store",
				Usage: "Coin store URL, overrides the coinstore setting",
			},
			&cli.BoolFlag{
				Name:  "cache",
				Usage: "Wrap the store with a TTL read cache",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "seed",
				Usage:     "Store every spendable output of a raw transaction",
				ArgsUsage: "<raw tx hex>",
				Action:    seed,
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:  "height",
						Usage: "Block height to record the coins at",
					},
				},
			},
			{
				Name:      "get",
				Usage:     "Print the coin for an outpoint",
				ArgsUsage: "<txid> <vout>",
				Action:    get,
			},
			{
				Name:      "spend",
				Usage:     "Spend a transaction's inputs through a coin view",
				ArgsUsage: "<raw tx hex>",
				Action:    spend,
			},
			{
				Name:   "health",
				Usage:  "Check the store is reachable",
				Action: health,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatalf("%v", err)
	}
}

func newStore(c *cli.Context) (coinstore.Store, error) {
	storeURL := tSettings.CoinStoreURL

	if raw := c.String("store"); raw != "" {
		var err error
		if storeURL, err = url.Parse(raw); err != nil {
			return nil, err
		}
	}

	store, err := factory.NewStore(c.Context, logger, storeURL, tSettings)
	if err != nil {
		return nil, err
	}

	if c.Bool("cache") || tSettings.CacheEnabled {
		store = cached.New(logger, store, tSettings.CacheTTL)
	}

	return store, nil
}

func txFromArg(c *cli.Context) (*bt.Tx, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expected a raw transaction hex argument")
	}

	return bt.NewTxFromString(c.Args().Get(0))
}

func seed(c *cli.Context) error {
	store, err := newStore(c)
	if err != nil {
		return err
	}

	tx, err := txFromArg(c)
	if err != nil {
		return err
	}

	height := uint32(c.Uint("height"))

	if err = coinstore.StoreTxOuts(c.Context, store, tx, height); err != nil {
		return err
	}

	fmt.Printf("stored outputs of %s at height %d\n", tx.TxIDChainHash().String(), height)

	return nil
}

func get(c *cli.Context) error {
	store, err := newStore(c)
	if err != nil {
		return err
	}

	if c.NArg() != 2 {
		return fmt.Errorf("expected <txid> <vout>")
	}

	hash, err := chainhash.NewHashFromStr(c.Args().Get(0))
	if err != nil {
		return err
	}

	var vout uint32
	if _, err = fmt.Sscanf(c.Args().Get(1), "%d", &vout); err != nil {
		return fmt.Errorf("invalid vout: %s", c.Args().Get(1))
	}

	coin, err := store.GetCoin(c.Context, model.NewOutpoint(*hash, vout))
	if err != nil {
		return err
	}

	printCoin(coin)

	return nil
}

func spend(c *cli.Context) error {
	store, err := newStore(c)
	if err != nil {
		return err
	}

	tx, err := txFromArg(c)
	if err != nil {
		return err
	}

	view := coinview.New(logger, tSettings)

	ok, err := view.SpendInputs(c.Context, store, tx)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("inputs of %s cannot be spent", tx.TxIDChainHash().String())
	}

	fmt.Printf("spent %d inputs of %s\n", view.UndoLen(), tx.TxIDChainHash().String())

	for _, utxo := range view.Undo() {
		fmt.Printf("  %s\n", utxo.Outpoint.String())
	}

	return nil
}

func health(c *cli.Context) error {
	store, err := newStore(c)
	if err != nil {
		return err
	}

	status, msg, err := store.Health(c.Context, true)
	if err != nil {
		return err
	}

	fmt.Printf("%d: %s\n", status, msg)

	return nil
}

func printCoin(coin *model.Coin) {
	script := ""
	if coin.LockingScript != nil {
		script = coin.LockingScript.String()
	}

	fmt.Printf("satoshis: %d\n", coin.Satoshis)
	fmt.Printf("height:   %d\n", coin.Height())
	fmt.Printf("coinbase: %v\n", coin.IsCoinbase())
	fmt.Printf("spent:    %v\n", coin.IsSpent())
	fmt.Printf("script:   %s\n", script)
}

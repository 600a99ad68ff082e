package sql

import (
	"context"
	"database/sql"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bsv-blockchain/go-coinview/errors"
	"github.com/bsv-blockchain/go-coinview/model"
	"github.com/bsv-blockchain/go-coinview/settings"
	"github.com/bsv-blockchain/go-coinview/ulogger"
)

var (
	prometheusCoinGet    prometheus.Counter
	prometheusCoinSet    prometheus.Counter
	prometheusCoinDelete prometheus.Counter
	prometheusCoinErrors *prometheus.CounterVec
)

func init() {
	prometheusCoinGet = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sql_coin_get",
			Help: "Number of coin get calls done to sql",
		},
	)
	prometheusCoinSet = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sql_coin_set",
			Help: "Number of coin set calls done to sql",
		},
	)
	prometheusCoinDelete = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sql_coin_delete",
			Help: "Number of coin delete calls done to sql",
		},
	)
	prometheusCoinErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sql_coin_errors",
			Help: "Number of coin store errors",
		},
		[]string{
			"function", // function raising the error
		},
	)
}

// Store is a coin store on sqlite or postgres. Meant for development and
// small deployments, one row per coin.
type Store struct {
	logger      ulogger.Logger
	db          *sql.DB
	engine      string
	dbTimeout   time.Duration
	blockHeight atomic.Uint32
}

func New(logger ulogger.Logger, storeURL *url.URL, tSettings *settings.Settings) (*Store, error) {
	db, err := initDB(logger, storeURL)
	if err != nil {
		return nil, err
	}

	s := &Store{
		logger:    logger,
		db:        db,
		engine:    storeURL.Scheme,
		dbTimeout: tSettings.DBTimeout,
	}

	switch storeURL.Scheme {
	case "postgres":
		if err = createPostgresSchema(db); err != nil {
			return nil, errors.NewStorageError("failed to create postgres schema", err)
		}

	case "sqlite", "sqlitememory":
		if err = createSqliteSchema(db); err != nil {
			return nil, errors.NewStorageError("failed to create sqlite schema", err)
		}

	default:
		return nil, errors.NewConfigurationError("unknown database engine: %s", storeURL.Scheme)
	}

	return s, nil
}

func (s *Store) Health(ctx context.Context, _ bool) (int, string, error) {
	if err := s.db.PingContext(ctx); err != nil {
		return 503, "SQL Store unavailable", errors.NewStorageError("ping failed", err)
	}

	return 200, "SQL Store available", nil
}

func (s *Store) GetCoin(ctx context.Context, outpoint *model.Outpoint) (*model.Coin, error) {
	prometheusCoinGet.Inc()

	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	q := `
		SELECT satoshis, height, coinbase, locking_script
		FROM coins
		WHERE txid = $1 AND vout = $2
	`

	var (
		satoshis int64
		height   int64
		coinbase bool
		script   []byte
	)

	err := s.db.QueryRowContext(ctx, s.rebind(q), outpoint.TxID[:], int64(outpoint.Index)).
		Scan(&satoshis, &height, &coinbase, &script)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewCoinNotFoundError("%v not found", outpoint)
		}

		prometheusCoinErrors.WithLabelValues("GetCoin").Inc()

		return nil, errors.NewStorageError("failed to get coin %v", outpoint, err)
	}

	return model.NewCoin(uint64(satoshis), bscript.NewFromBytes(script), uint32(height), coinbase), nil
}

func (s *Store) SetCoin(ctx context.Context, outpoint *model.Outpoint, coin *model.Coin) error {
	if coin == nil {
		return errors.NewInvalidArgumentError("coin for %v is nil", outpoint)
	}

	prometheusCoinSet.Inc()

	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	q := `
		INSERT INTO coins (txid, vout, satoshis, height, coinbase, locking_script)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (txid, vout) DO UPDATE SET
			satoshis = excluded.satoshis
			,height = excluded.height
			,coinbase = excluded.coinbase
			,locking_script = excluded.locking_script
	`

	var script []byte
	if coin.LockingScript != nil {
		script = *coin.LockingScript
	}

	_, err := s.db.ExecContext(ctx, s.rebind(q),
		outpoint.TxID[:],
		int64(outpoint.Index),
		int64(coin.Satoshis),
		int64(coin.Height()),
		coin.IsCoinbase(),
		script,
	)
	if err != nil {
		prometheusCoinErrors.WithLabelValues("SetCoin").Inc()
		return errors.NewStorageError("failed to set coin %v", outpoint, err)
	}

	return nil
}

func (s *Store) DeleteCoin(ctx context.Context, outpoint *model.Outpoint) error {
	prometheusCoinDelete.Inc()

	ctx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	defer cancel()

	q := `DELETE FROM coins WHERE txid = $1 AND vout = $2`

	if _, err := s.db.ExecContext(ctx, s.rebind(q), outpoint.TxID[:], int64(outpoint.Index)); err != nil {
		prometheusCoinErrors.WithLabelValues("DeleteCoin").Inc()
		return errors.NewStorageError("failed to delete coin %v", outpoint, err)
	}

	return nil
}

func (s *Store) SetBlockHeight(height uint32) error {
	s.blockHeight.Store(height)
	return nil
}

func (s *Store) GetBlockHeight() uint32 {
	return s.blockHeight.Load()
}

func (s *Store) Close() error {
	return s.db.Close()
}

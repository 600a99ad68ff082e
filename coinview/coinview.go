package coinview

import (
	"sync"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bsv-blockchain/go-coinview/model"
	"github.com/bsv-blockchain/go-coinview/settings"
	"github.com/bsv-blockchain/go-coinview/ulogger"
)

var (
	prometheusCoinViewReads         prometheus.Counter
	prometheusCoinViewCacheHits     prometheus.Counter
	prometheusCoinViewStoreMisses   prometheus.Counter
	prometheusCoinViewSpends        prometheus.Counter
	prometheusCoinViewSpendFailures prometheus.Counter
)

func init() {
	prometheusCoinViewReads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coinview_reads",
			Help: "Number of coin reads requested from views",
		},
	)
	prometheusCoinViewCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coinview_cache_hits",
			Help: "Number of coin reads answered from the view without a store access",
		},
	)
	prometheusCoinViewStoreMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coinview_store_misses",
			Help: "Number of coin reads that missed both the view and the store",
		},
	)
	prometheusCoinViewSpends = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coinview_spends",
			Help: "Number of coins marked spent in views",
		},
	)
	prometheusCoinViewSpendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coinview_spend_failures",
			Help: "Number of spend attempts on missing or already spent coins",
		},
	)
}

// CoinView is an overlay over a persistent coin store, scoped to the
// validation of one transaction or block. It lazily holds the coins the
// validation references, lets the caller mark them spent or insert newly
// created ones, and records every spend in an undo log so a later disconnect
// can restore the prior state.
//
// The view exclusively owns its coin sets: every lookup of the same
// transaction hash returns the same set, never a copy. A view belongs to a
// single unit of work; the internal mutex only covers the bounded read
// fan-out in SpendInputs.
type CoinView struct {
	logger      ulogger.Logger
	settings    *settings.Settings
	unspendable model.Classifier

	mu    sync.Mutex
	coins map[chainhash.Hash]*model.CoinSet
	undo  []*model.UTXO
}

type Option func(*CoinView)

// WithClassifier replaces the unspendable script classifier.
func WithClassifier(c model.Classifier) Option {
	return func(v *CoinView) {
		v.unspendable = c
	}
}

func New(logger ulogger.Logger, tSettings *settings.Settings, options ...Option) *CoinView {
	if tSettings == nil {
		tSettings = settings.NewSettings()
	}

	v := &CoinView{
		logger:      logger,
		settings:    tSettings,
		unspendable: model.NewClassifier(tSettings.MaxScriptSize),
		coins:       make(map[chainhash.Hash]*model.CoinSet),
		undo:        make([]*model.UTXO, 0),
	}

	for _, o := range options {
		o(v)
	}

	return v
}

// Get returns the coin set for the given transaction hash, or nil. No store
// access.
func (v *CoinView) Get(hash *chainhash.Hash) *model.CoinSet {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.coins[*hash]
}

// Has returns whether a coin set exists for the given transaction hash.
func (v *CoinView) Has(hash *chainhash.Hash) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	_, ok := v.coins[*hash]

	return ok
}

// Add inserts or replaces the coin set for the given transaction hash and
// returns the stored set.
func (v *CoinView) Add(hash *chainhash.Hash, cs *model.CoinSet) *model.CoinSet {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.coins[*hash] = cs

	return cs
}

// Remove deletes the whole coin set for the given transaction hash and
// returns whether one existed. This is distinct from spending.
func (v *CoinView) Remove(hash *chainhash.Hash) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.coins[*hash]; !ok {
		return false
	}

	delete(v.coins, *hash)

	return true
}

// AddTxOuts builds a fresh coin set from every spendable output of tx at the
// given height and inserts it, replacing any existing set for that hash.
func (v *CoinView) AddTxOuts(tx *bt.Tx, height uint32) *model.CoinSet {
	return v.addTx(tx, height, false)
}

// MarkTxOutsSpent inserts the same coin set AddTxOuts would, with every coin
// already marked spent and nothing recorded in the undo log. Used when a
// transaction being disconnected must be represented as fully spent without
// consulting the store.
func (v *CoinView) MarkTxOutsSpent(tx *bt.Tx, height uint32) *model.CoinSet {
	return v.addTx(tx, height, true)
}

func (v *CoinView) addTx(tx *bt.Tx, height uint32, spent bool) *model.CoinSet {
	cs := model.NewCoinSet()
	coinbase := tx.IsCoinbase()

	for i, output := range tx.Outputs {
		if v.unspendable(output.LockingScript) {
			continue
		}

		c := model.NewCoinFromOutput(output, height, coinbase)
		if spent {
			c.Spend()
		}

		cs.Add(uint32(i), c)
	}

	return v.Add(tx.TxIDChainHash(), cs)
}

type addResult int

const (
	addInserted addResult = iota
	addSkippedUnspendable
	addSkippedDuplicate
)

// addEntry applies the insertion policy: unspendable scripts are skipped, a
// coin already present at the index wins. Auto-vivifies the coin set unless
// the insertion is skipped for unspendability.
func (v *CoinView) addEntry(outpoint *model.Outpoint, coin *model.Coin) (addResult, *model.CoinSet) {
	if v.unspendable(coin.LockingScript) {
		return addSkippedUnspendable, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	cs, ok := v.coins[outpoint.TxID]
	if !ok {
		cs = model.NewCoinSet()
		v.coins[outpoint.TxID] = cs
	}

	if cs.Has(outpoint.Index) {
		return addSkippedDuplicate, cs
	}

	cs.Add(outpoint.Index, coin)

	return addInserted, cs
}

// AddEntry inserts the coin at the given outpoint, unless its script is
// unspendable or a coin already occupies the index (first wins). Returns the
// containing coin set, or nil when the script is unspendable.
func (v *CoinView) AddEntry(outpoint *model.Outpoint, coin *model.Coin) *model.CoinSet {
	_, cs := v.addEntry(outpoint, coin)
	return cs
}

// AddUTXO inserts a self-describing coin, with the same policy as AddEntry.
func (v *CoinView) AddUTXO(utxo *model.UTXO) *model.CoinSet {
	return v.AddEntry(&utxo.Outpoint, utxo.Coin)
}

// AddOutput inserts a bare transaction output created at the given outpoint,
// with the same policy as AddEntry.
func (v *CoinView) AddOutput(outpoint *model.Outpoint, output *bt.Output, height uint32, coinbase bool) *model.CoinSet {
	return v.AddEntry(outpoint, model.NewCoinFromOutput(output, height, coinbase))
}

// SpendOutput marks the coin at the given outpoint as spent and records the
// pre-mutation coin in the undo log. Returns false, with no side effect, when
// the coin is absent or already spent.
func (v *CoinView) SpendOutput(outpoint *model.Outpoint) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	cs, ok := v.coins[outpoint.TxID]
	if !ok {
		prometheusCoinViewSpendFailures.Inc()
		return false
	}

	undo := cs.Spend(outpoint.Index)
	if undo == nil {
		prometheusCoinViewSpendFailures.Inc()
		return false
	}

	v.undo = append(v.undo, model.NewUTXO(*outpoint, undo))
	prometheusCoinViewSpends.Inc()

	return true
}

// RemoveOutput deletes the coin at the given outpoint from its coin set
// entirely, recording nothing in the undo log. Used to erase a just created
// coin rather than to reverse a spend.
func (v *CoinView) RemoveOutput(outpoint *model.Outpoint) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	cs, ok := v.coins[outpoint.TxID]
	if !ok {
		return false
	}

	return cs.Remove(outpoint.Index)
}

// HasEntry returns whether a coin, spent or not, exists at the outpoint.
func (v *CoinView) HasEntry(outpoint *model.Outpoint) bool {
	return v.GetEntry(outpoint) != nil
}

// GetEntry returns the coin at the outpoint, or nil. Spent coins are
// returned, check IsSpent.
func (v *CoinView) GetEntry(outpoint *model.Outpoint) *model.Coin {
	v.mu.Lock()
	defer v.mu.Unlock()

	cs, ok := v.coins[outpoint.TxID]
	if !ok {
		return nil
	}

	return cs.Get(outpoint.Index)
}

// GetUTXO returns the coin at the outpoint as a self-describing UTXO, or nil.
func (v *CoinView) GetUTXO(outpoint *model.Outpoint) *model.UTXO {
	coin := v.GetEntry(outpoint)
	if coin == nil {
		return nil
	}

	return model.NewUTXO(*outpoint, coin)
}

// GetOutput returns the transaction output stored at the outpoint, or nil.
func (v *CoinView) GetOutput(outpoint *model.Outpoint) *bt.Output {
	coin := v.GetEntry(outpoint)
	if coin == nil {
		return nil
	}

	return coin.ToOutput()
}

// GetHeight returns the creation height of the coin at the outpoint, or -1
// when absent.
func (v *CoinView) GetHeight(outpoint *model.Outpoint) int32 {
	coin := v.GetEntry(outpoint)
	if coin == nil {
		return -1
	}

	return int32(coin.Height())
}

// IsCoinbase returns whether the coin at the outpoint came from a coinbase
// transaction, or false when absent.
func (v *CoinView) IsCoinbase(outpoint *model.Outpoint) bool {
	coin := v.GetEntry(outpoint)
	if coin == nil {
		return false
	}

	return coin.IsCoinbase()
}

// Input keyed variants of the queries above, operating on the outpoint the
// input references.

func (v *CoinView) HasEntryForInput(input *bt.Input) bool {
	return v.HasEntry(model.NewOutpointFromInput(input))
}

func (v *CoinView) GetEntryForInput(input *bt.Input) *model.Coin {
	return v.GetEntry(model.NewOutpointFromInput(input))
}

func (v *CoinView) GetUTXOForInput(input *bt.Input) *model.UTXO {
	return v.GetUTXO(model.NewOutpointFromInput(input))
}

func (v *CoinView) GetOutputForInput(input *bt.Input) *bt.Output {
	return v.GetOutput(model.NewOutpointFromInput(input))
}

func (v *CoinView) GetHeightForInput(input *bt.Input) int32 {
	return v.GetHeight(model.NewOutpointFromInput(input))
}

func (v *CoinView) IsCoinbaseForInput(input *bt.Input) bool {
	return v.IsCoinbase(model.NewOutpointFromInput(input))
}

// Undo returns the undo log: every spent coin in the order the spends
// happened, each as it was before the spend.
func (v *CoinView) Undo() []*model.UTXO {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.undo
}

// UndoLen returns the length of the undo log.
func (v *CoinView) UndoLen() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.undo)
}

// Len returns the number of coin sets held.
func (v *CoinView) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.coins)
}

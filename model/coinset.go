package model

import "sort"

// CoinSet holds every known coin created by one transaction, keyed by output
// index. A coin stays in the set after being spent, marked by its spent flag;
// Remove is the only way to take a coin out of the set.
type CoinSet struct {
	coins map[uint32]*Coin
}

func NewCoinSet() *CoinSet {
	return &CoinSet{
		coins: make(map[uint32]*Coin),
	}
}

// Get returns the coin at the given output index, or nil.
func (cs *CoinSet) Get(vout uint32) *Coin {
	return cs.coins[vout]
}

// Has returns whether a coin exists at the given output index, spent or not.
func (cs *CoinSet) Has(vout uint32) bool {
	_, ok := cs.coins[vout]
	return ok
}

// Add inserts or replaces the coin at the given output index.
func (cs *CoinSet) Add(vout uint32, coin *Coin) {
	cs.coins[vout] = coin
}

// Remove deletes the coin at the given output index entirely and returns
// whether one existed. This is distinct from spending.
func (cs *CoinSet) Remove(vout uint32) bool {
	if _, ok := cs.coins[vout]; !ok {
		return false
	}

	delete(cs.coins, vout)

	return true
}

// Spend marks the coin at the given output index as spent and returns a clone
// of the coin as it was before the mutation. Returns nil if the coin is
// absent or already spent.
func (cs *CoinSet) Spend(vout uint32) *Coin {
	coin, ok := cs.coins[vout]
	if !ok || coin.IsSpent() {
		return nil
	}

	undo := coin.Clone()
	coin.Spend()

	return undo
}

func (cs *CoinSet) Len() int {
	return len(cs.coins)
}

func (cs *CoinSet) IsEmpty() bool {
	return len(cs.coins) == 0
}

// Vouts returns the output indexes present in the set, ascending.
func (cs *CoinSet) Vouts() []uint32 {
	vouts := make([]uint32, 0, len(cs.coins))
	for vout := range cs.coins {
		vouts = append(vouts, vout)
	}

	sort.Slice(vouts, func(i, j int) bool { return vouts[i] < vouts[j] })

	return vouts
}

// Range calls fn for every coin in the set, in no particular order, until fn
// returns false.
func (cs *CoinSet) Range(fn func(vout uint32, coin *Coin) bool) {
	for vout, coin := range cs.coins {
		if !fn(vout, coin) {
			return
		}
	}
}

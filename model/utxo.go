package model

// UTXO is a self-describing coin: the coin plus the outpoint that created it.
type UTXO struct {
	// Outpoint uniquely identifies the UTXO.
	Outpoint Outpoint
	// Coin contains the UTXO's data.
	Coin *Coin
}

func NewUTXO(outpoint Outpoint, coin *Coin) *UTXO {
	return &UTXO{
		Outpoint: outpoint,
		Coin:     coin,
	}
}

package model

import (
	"github.com/bsv-blockchain/go-bt/v2/bscript"
)

// MaxScriptSize is the default size above which a locking script is
// considered unspendable.
const MaxScriptSize = 10000

// Classifier decides whether a locking script can never be spent. Outputs
// whose script is classified unspendable are not worth tracking in a view.
type Classifier func(script *bscript.Script) bool

// NewClassifier returns a Classifier that rejects nil scripts, data carrier
// outputs and scripts larger than maxScriptSize bytes.
func NewClassifier(maxScriptSize int) Classifier {
	return func(script *bscript.Script) bool {
		if script == nil {
			return true
		}

		return script.IsData() || len(*script) > maxScriptSize
	}
}

// IsUnspendable is the default Classifier, limited at MaxScriptSize.
var IsUnspendable = NewClassifier(MaxScriptSize)

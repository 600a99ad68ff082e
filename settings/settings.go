package settings

import (
	"net/url"
	"time"
)

// Settings holds every tunable this library reads. Populated once at startup
// from gocore config, everything has a working default so the zero config
// case runs.
type Settings struct {
	LogLevel   string
	LoggerType string

	// CoinStoreURL selects the backing store, by scheme: memory, sqlite,
	// sqlitememory, postgres, null.
	CoinStoreURL *url.URL

	// ConcurrentReadThreshold is the input count at which SpendInputs stops
	// fanning out store reads and issues them one at a time.
	ConcurrentReadThreshold int

	// MaxScriptSize is the size above which a locking script is classified
	// unspendable.
	MaxScriptSize int

	DBTimeout time.Duration

	// CacheEnabled wraps the store with the TTL read cache.
	CacheEnabled bool
	CacheTTL     time.Duration
}

func NewSettings() *Settings {
	return &Settings{
		LogLevel:                getString("logLevel", "INFO"),
		LoggerType:              getString("logger_type", "zerolog"),
		CoinStoreURL:            getURL("coinstore", "sqlitememory:///coinview"),
		ConcurrentReadThreshold: getInt("coinview_concurrentReadThreshold", 4),
		MaxScriptSize:           getInt("coinview_maxScriptSize", 10000),
		DBTimeout:               getDuration("coinstore_dbTimeout", 5*time.Second),
		CacheEnabled:            getBool("coinstore_cache", false),
		CacheTTL:                getDuration("coinstore_cacheTTL", 1*time.Minute),
	}
}

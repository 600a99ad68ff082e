package errors

var (
	ErrUnknown         = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrNotFound        = New(ERR_NOT_FOUND, "not found")
	ErrProcessing      = New(ERR_PROCESSING, "error processing")
	ErrConfiguration   = New(ERR_CONFIGURATION, "configuration error")
	ErrStorage         = New(ERR_STORAGE, "storage error")
	ErrCoinNotFound    = New(ERR_COIN_NOT_FOUND, "coin not found")
	ErrCoinSpent       = New(ERR_COIN_SPENT, "coin already spent")
	ErrUnspendable     = New(ERR_UNSPENDABLE, "output is unspendable")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}

func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}

func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}

func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}

func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}

func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE, message, params...)
}

func NewCoinNotFoundError(message string, params ...interface{}) error {
	return New(ERR_COIN_NOT_FOUND, message, params...)
}

func NewCoinSpentError(message string, params ...interface{}) error {
	return New(ERR_COIN_SPENT, message, params...)
}

func NewUnspendableError(message string, params ...interface{}) error {
	return New(ERR_UNSPENDABLE, message, params...)
}

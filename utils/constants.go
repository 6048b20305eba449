package utils

const (
	// Split methods
	SplitMethodEqual    = "equal"
	SplitMethodQuantity = "quantity"
	SplitMethodCustom   = "custom"

	// Settlement status
	SettlementPending   = "pending"
	SettlementCompleted = "completed"

	// ID and code generation
	IDCharset   = "abcdefghijklmnopqrstuvwxyz0123456789"
	CodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	IDLength    = 20
	CodeLength  = 6

	// HTTP status messages
	ErrInvalidRequest     = "Invalid request"
	ErrGroupNotFound      = "Group not found"
	ErrPurchaseNotFound   = "Purchase not found"
	ErrSettlementNotFound = "Settlement not found"
	ErrFailedToStore      = "Failed to store data"
	ErrFailedToRetrieve   = "Failed to retrieve data"

	// Precision for monetary calculations
	MoneyPrecision = 100.0

	// SumEpsilon is the tolerance applied to user-supplied sums:
	// custom percentages against 100, custom amounts against the purchase
	// total, and per-item quantities against the purchased quantity.
	SumEpsilon = 0.01

	// BalanceEpsilon is the tolerance below which a balance counts as
	// settled. Shares are allocated in milli-units, so anything smaller
	// is rounding noise and never becomes a transfer.
	BalanceEpsilon = 0.001
)

package swap

import "errors"

// Every failure path of the engine maps to exactly one of these kinds.
// Validation, authorization and state errors are reported before any state is
// mutated; ErrTransferFailed marks an integration failure inside the effects
// phase, after which the whole operation has been rolled back.
var (
	ErrAssetNotSupported      = errors.New("swap engine: asset class not supported")
	ErrNotOwnerOrAuthorized   = errors.New("swap engine: caller not owner or authorized")
	ErrMarkUpTooHigh          = errors.New("swap engine: mark-up exceeds limit")
	ErrOrderAlreadyExists     = errors.New("swap engine: order already exists")
	ErrWantedAssetNonexistent = errors.New("swap engine: wanted asset does not exist")
	ErrInsufficientFee        = errors.New("swap engine: insufficient fee payment")
	ErrOrderNotFound          = errors.New("swap engine: order not found")
	ErrSelfMatchForbidden     = errors.New("swap engine: cannot complete own order")
	ErrNotOrderOwner          = errors.New("swap engine: caller is not the order owner")
	ErrTransferFailed         = errors.New("swap engine: transfer failed")
	ErrInvalidAsset           = errors.New("swap engine: invalid asset reference")
)

var (
	errNilState     = errors.New("swap engine: state not configured")
	errNilRegistry  = errors.New("swap engine: asset registry not configured")
	errNilLedger    = errors.New("swap engine: token ledger not configured")
	errNilBank      = errors.New("swap engine: bank not configured")
	errNilVault     = errors.New("swap engine: custody vault not configured")
	errNilParams    = errors.New("swap engine: params not configured")
	errNilTreasury  = errors.New("swap engine: fee treasury not configured")
	errNilCollector = errors.New("swap engine: collector account not configured")
)

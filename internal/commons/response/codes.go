package response

// Machine-readable error codes surfaced alongside HTTP status.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeInsufficientFunds   = "INSUFFICIENT_FUNDS"
	CodeDuplicateReference  = "DUPLICATE_REFERENCE"
	CodeInvalidPin          = "INVALID_PIN"
	CodePinAlreadySet       = "PIN_ALREADY_SET"
	CodePinNotSet           = "PIN_NOT_SET"
	CodeMissingIdentityData = "MISSING_IDENTITY_DATA"
	CodeInvalidSignature    = "INVALID_SIGNATURE"
	CodeProviderError       = "PROVIDER_ERROR"
	CodeWalletNotFound      = "WALLET_NOT_FOUND"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeServerError         = "SERVER_ERROR"
)

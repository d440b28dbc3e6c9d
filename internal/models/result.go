package models

// User-facing failure messages
const (
	MsgNetworkError        = "Network error, please try again later"
	MsgInternalServerError = "Internal server error, please contact the administrator or try again later"
	MsgServerErrorFormat   = "Server error (%d)"
	MsgNotLoggedIn         = "Please log in first"
)

// Result is the outcome of an operation that never fails loudly.
// Message carries the user-facing reason when Success is false.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func OK() Result {
	return Result{Success: true}
}

func Fail(message string) Result {
	return Result{Success: false, Message: message}
}

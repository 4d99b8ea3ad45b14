package billing

import "fmt"

// Result is the terminal outcome of a purchase flow. Exactly one Result is
// delivered per handled platform event.
type Result struct {
	Code    Code
	Message string
}

// NewResult builds a Result. When message is empty the code's description
// is used instead.
func NewResult(code Code, message string) Result {
	if message == "" {
		message = code.Description()
	}
	return Result{Code: code, Message: message}
}

func (r Result) IsSuccess() bool {
	return r.Code == ResponseOK
}

func (r Result) IsFailure() bool {
	return !r.IsSuccess()
}

func (r Result) String() string {
	return fmt.Sprintf("IabResult: %s (response: %s)", r.Message, r.Code.Description())
}

package ledger

// Result is the outcome every mutating operation reports. Side effects happen
// only when Success is true. Err is nil on success and otherwise matches one
// of the sentinels in errors.go.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func succeed(msg string) Result {
	return Result{Success: true, Message: msg}
}

func fail(err error) Result {
	return Result{Success: false, Message: err.Error(), Err: err}
}

// Code returns the stable error code of the result ("ok" on success).
func (r Result) Code() string {
	return ErrorCode(r.Err)
}

package email

// TemporaryError marks failures worth retrying (network, throttling).
type TemporaryError struct{ msg string }

func (e TemporaryError) Error() string   { return e.msg }
func (e TemporaryError) Permanent() bool { return false }

// PermanentError marks failures a retry cannot fix (bad address, auth).
type PermanentError struct{ msg string }

func (e PermanentError) Error() string   { return e.msg }
func (e PermanentError) Permanent() bool { return true }

package assert

import "github.com/tallworlds/cubic/oerror"

// IsTrue panics with an *oerror.Error if ok is false.
func IsTrue(ok bool, message string, args ...any) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

package extract

import "fmt"

// RecoverParser converts a panic raised inside a third-party parser into an
// error on *err. It must be deferred directly. Panics carrying an error keep
// it in the chain.
func RecoverParser(err *error) {
	rec := recover()
	if rec == nil {
		return
	}
	if e, ok := rec.(error); ok {
		*err = fmt.Errorf("pdf parser: %w", e)
		return
	}
	*err = fmt.Errorf("pdf parser: %v", rec)
}

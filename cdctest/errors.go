// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package cdctest

import (
	"fmt"

	"github.com/pkg/errors"
)

// Driver errors. Use errors.Cause to check for them.
//
var (
	ErrFull  = errors.New("FULL")
	ErrEmpty = errors.New("EMPTY")
	ErrBusy  = errors.New("acknowledge pending")
)

// An InvariantError reports an observed value that differs from the expected
// one. It aborts the test run.
//
type InvariantError struct {
	Test      string
	Iteration int // -1 outside of the randomized iterations
	Expected  uint64
	Observed  uint64
	Msg       string
}

func (e *InvariantError) Error() string {
	if e.Iteration < 0 {
		return fmt.Sprintf("%s: %s: expected [%d], observed [%d]", e.Test, e.Msg, e.Expected, e.Observed)
	}
	return fmt.Sprintf("%s: iteration %d: %s: expected [%d], observed [%d]", e.Test, e.Iteration, e.Msg, e.Expected, e.Observed)
}

// check returns an *InvariantError if observed != expected.
//
func check(test string, iter int, msg string, expected, observed uint64) error {
	if expected == observed {
		return nil
	}
	return &InvariantError{Test: test, Iteration: iter, Expected: expected, Observed: observed, Msg: msg}
}

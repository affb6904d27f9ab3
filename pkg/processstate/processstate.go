// Package processstate answers whether an OS process is still alive.
package processstate

import "errors"

var ErrInvalidPID = errors.New("invalid PID")

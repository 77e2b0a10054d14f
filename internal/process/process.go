// Package process reaps the headless browser and its helper processes.
package process

import "errors"

// ErrInvalidPID is returned for a PID that cannot name a process tree.
var ErrInvalidPID = errors.New("invalid process id")

package logger

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("config Log.AppName can not be empty")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName can not be empty")
)

// ErrorHandler reports log write failures on stderr. Wired into zerolog by Init.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "go-cadet-admin: could not write log event: %v\n", err)
}

package utils

import "fmt"

// ErrorKind classifies a collector error by how the pipeline must react to it.
type ErrorKind int

const (
	// KindFetch covers page fetch failures. Recoverable: the item is
	// counted as failed and the run continues.
	KindFetch ErrorKind = iota
	// KindExtract covers field extraction failures. Recoverable per item.
	KindExtract
	// KindEnumerate covers link enumeration failures. Fatal when nothing
	// could be enumerated at all.
	KindEnumerate
	// KindPersist covers snapshot write failures. Always fatal: continuing
	// past an unconfirmed write would break the at-most-once guarantee.
	KindPersist
	// KindConfig covers configuration and validation failures at startup.
	KindConfig
)

// CollectorError is the application error type carried across pipeline
// boundaries. Fatal errors abort the run, non-fatal ones are swallowed at the
// driver and surfaced only as aggregate counts.
type CollectorError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *CollectorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CollectorError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the error must abort the whole run.
func (e *CollectorError) Fatal() bool {
	switch e.Kind {
	case KindPersist, KindConfig, KindEnumerate:
		return true
	}
	return false
}

func NewFetchError(message string, err error) *CollectorError {
	return &CollectorError{Kind: KindFetch, Message: message, Err: err}
}

func NewExtractError(message string, err error) *CollectorError {
	return &CollectorError{Kind: KindExtract, Message: message, Err: err}
}

func NewEnumerateError(message string, err error) *CollectorError {
	return &CollectorError{Kind: KindEnumerate, Message: message, Err: err}
}

func NewPersistError(message string, err error) *CollectorError {
	return &CollectorError{Kind: KindPersist, Message: message, Err: err}
}

func NewConfigError(message string, err error) *CollectorError {
	return &CollectorError{Kind: KindConfig, Message: message, Err: err}
}

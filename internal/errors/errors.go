// Package errors provides error handling for clinvar-xml-tab.
//
// It re-exports github.com/cockroachdb/errors so every layer gets stack
// traces, wrapping and user hints from one import, and it defines the
// sentinels the conversion pipeline classifies failures by.
//
// Usage:
//
//	if err := dec.Token(); err != nil {
//	    return errors.Mark(errors.Wrap(err, "read token"), errors.ErrMalformed)
//	}
//
//	if errors.Is(err, errors.ErrTruncated) {
//	    // input ended inside a record
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
	WithDetailf  = crdb.WithDetailf
	FlattenHints = crdb.FlattenHints
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Assertions signal broken internal contracts, never bad input.
var (
	AssertionFailedf    = crdb.AssertionFailedf
	HasAssertionFailure = crdb.HasAssertionFailure
)

// Sentinel errors. Wrap or Mark them to add context while keeping the
// classification visible to errors.Is.
var (
	// ErrMalformed indicates the input is not well-formed markup.
	ErrMalformed = New("malformed input")

	// ErrTruncated indicates the input ended before a record was closed.
	ErrTruncated = New("truncated input")

	// ErrUsage indicates invalid flags, configuration or arguments.
	ErrUsage = New("usage error")
)

// IsFatalInput reports whether err stems from unreadable input.
func IsFatalInput(err error) bool {
	return err != nil && IsAny(err, ErrMalformed, ErrTruncated)
}

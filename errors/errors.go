// Copyright 2024 Tempodb Authors. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package errors defines the error-kind vocabulary shared by every package
// in this module, following the shape of github.com/grailbio/base/errors
// (a *Error with an exported Kind, built via a variadic E() constructor):
// callers type-assert on *Error and switch on Kind rather than comparing
// error strings.
package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies why an operation failed. The set is closed and mirrors
// the error-kind table of the temporal value model: every failure surfaced
// across this module's public API carries exactly one of these.
type Kind int

const (
	// Other is the zero value: a failure that does not fit any kind below.
	Other Kind = iota
	// InvalidInput marks a malformed constructor argument, parse failure,
	// or bound-order violation.
	InvalidInput
	// InvalidInterpolation marks Linear interpolation requested for a base
	// type that does not support it (bool, text).
	InvalidInterpolation
	// OverlapOrAdjacency marks a PeriodSet/SequenceSet built from
	// overlapping or adjacent parts without requesting normalization.
	OverlapOrAdjacency
	// SridMismatch marks a spatial operation mixing incompatible SRIDs.
	SridMismatch
	// Overflow marks arithmetic overflow encountered during lifting.
	Overflow
	// DivisionByZero marks division by a zero divisor encountered during
	// lifting.
	DivisionByZero
	// Unsupported marks a combination of operator, base type, and
	// interpolation that is not defined.
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case InvalidInterpolation:
		return "invalid interpolation"
	case OverlapOrAdjacency:
		return "overlap or adjacency"
	case SridMismatch:
		return "SRID mismatch"
	case Overflow:
		return "overflow"
	case DivisionByZero:
		return "division by zero"
	case Unsupported:
		return "unsupported"
	default:
		return "error"
	}
}

// Error is the concrete error type returned by every exported constructor
// and operator in this module. Op names the failing function; Detail
// embeds the offending timestamp or index per the error-message contract;
// Err, when set, is the underlying cause (wrapped with github.com/pkg/errors
// so a stack trace survives for debugging).
type Error struct {
	Kind   Kind
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error from op, kind, and an optional detail/cause.
//
//	E("period_make", errors.InvalidInput, "lower > upper")
//	E("value_at_timestamp", errors.Overflow, "", err)
func E(op string, kind Kind, detail string, cause ...error) *Error {
	e := &Error{Op: op, Kind: kind, Detail: detail}
	if len(cause) > 0 && cause[0] != nil {
		e.Err = pkgerrors.WithStack(cause[0])
	}
	return e
}

// Is reports whether err is an *Error of the given kind.
func Is(kind Kind, err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == kind
	}
	return false
}

// Detailf formats a Detail string embedding an index or timestamp, matching
// the "error messages embed the offending timestamp or index" contract.
func Detailf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

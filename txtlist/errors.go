// Copyright 2025 The Polyfix Authors
// SPDX-License-Identifier: Apache-2.0

package txtlist

import (
	"errors"
	"fmt"
)

// ErrorType classifies list file failures.
type ErrorType int

const (
	// ErrorTypeUnknown unclassified failure.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNotTxtList the file is not a .txt list.
	ErrorTypeNotTxtList
	// ErrorTypeEmptyFile the file has no content at all.
	ErrorTypeEmptyFile
	// ErrorTypeBadHeader the first line is not a list header.
	ErrorTypeBadHeader
	// ErrorTypeMalformedRow a data row could not be parsed.
	ErrorTypeMalformedRow
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeNotTxtList:
		return "not a txt list"
	case ErrorTypeEmptyFile:
		return "empty file"
	case ErrorTypeBadHeader:
		return "bad header"
	case ErrorTypeMalformedRow:
		return "malformed row"
	default:
		return "unknown"
	}
}

// Error describes a failure reading or writing a list file.
type Error struct {
	Type ErrorType
	Path string
	Line int // 1-based, zero when not tied to a line
	Err  error
}

func (e *Error) Error() string {
	msg := e.Type.String() + ": " + e.Path
	if e.Line > 0 {
		msg = fmt.Sprintf("%s:%d", msg, e.Line)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func isType(err error, t ErrorType) bool {
	var listErr *Error
	if errors.As(err, &listErr) {
		return listErr.Type == t
	}

	return false
}

// IsEmptyFileError reports whether err comes from reading an empty file.
func IsEmptyFileError(err error) bool {
	return isType(err, ErrorTypeEmptyFile)
}

// IsNotTxtListError reports whether err comes from a file that is not a list.
func IsNotTxtListError(err error) bool {
	return isType(err, ErrorTypeNotTxtList) || isType(err, ErrorTypeBadHeader)
}

// IsMalformedRowError reports whether err comes from an unparsable data row.
func IsMalformedRowError(err error) bool {
	return isType(err, ErrorTypeMalformedRow)
}

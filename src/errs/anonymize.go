/*
Copyright (c) YugabyteDB, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package errs

import (
	"errors"
	"fmt"
	"strings"
)

// FetchError is returned when the original object could not be retrieved.
type FetchError struct {
	Locator    string // redacted locator, never the signed query string
	StatusCode int    // 0 when the request never got a response
	err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch original object %s: status %d: %s", e.Locator, e.StatusCode, e.err)
	}
	return fmt.Sprintf("failed to fetch original object %s: %s", e.Locator, e.err)
}

func (e *FetchError) Unwrap() error {
	return e.err
}

func NewFetchError(locator string, statusCode int, err error) *FetchError {
	return &FetchError{Locator: locator, StatusCode: statusCode, err: err}
}

// ParseError means the document itself is unusable: unreadable CSV or a header
// that lacks required columns.
type ParseError struct {
	Missing []string
	err     error
}

func (e *ParseError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("csv header is missing required columns: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("parsing csv: %s", e.err)
}

func (e *ParseError) Unwrap() error {
	return e.err
}

func NewMissingColumnsError(missing []string) *ParseError {
	return &ParseError{Missing: missing}
}

func NewParseError(err error) *ParseError {
	return &ParseError{err: err}
}

// FormatError is returned when a field value does not have the expected format.
// The offending value is kept for callers but is not part of Error() since it
// may identify a person.
type FormatError struct {
	Row    int
	Column string
	Value  string
	reason string
	err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("row %d: column %s %s", e.Row, e.Column, e.reason)
}

func (e *FormatError) Unwrap() error {
	return e.err
}

func NewFormatError(row int, column, value string, err error) *FormatError {
	return &FormatError{Row: row, Column: column, Value: value,
		reason: "is not a valid date (expected YYYY-MM-DD)", err: err}
}

var ErrUnescapedValue = errors.New("value contains a field delimiter or line break")

// NewUnescapedValueError reports a value that cannot be written to the output
// since output fields are never quoted.
func NewUnescapedValueError(row int, column, value string) *FormatError {
	return &FormatError{Row: row, Column: column, Value: value,
		reason: "contains a field delimiter or line break", err: ErrUnescapedValue}
}

type MissingFieldError struct {
	Row    int
	Column string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("row %d: missing required field %s", e.Row, e.Column)
}

func NewMissingFieldError(row int, column string) *MissingFieldError {
	return &MissingFieldError{Row: row, Column: column}
}

// IsDocumentError reports whether err was caused by the content of the input
// document rather than by infrastructure.
func IsDocumentError(err error) bool {
	var parseErr *ParseError
	var formatErr *FormatError
	var missingErr *MissingFieldError
	return errors.As(err, &parseErr) || errors.As(err, &formatErr) || errors.As(err, &missingErr)
}

func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

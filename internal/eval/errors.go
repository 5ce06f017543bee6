// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"

	"nickandperla.net/ua/internal/value"
)

// StackUnderflowError reports an operation popping an empty stack. It
// is fatal for the current run.
type StackUnderflowError struct {
	Op string
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("%s needs more values than the stack holds", e.Op)
}

// BindingError reports an unknown name, including a dfn argument
// referenced outside its dfn's dynamic extent.
type BindingError struct {
	Name string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("no binding for %q", e.Name)
}

// ImportError reports a failed file import.
type ImportError struct {
	Path string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("importing %s: %v", e.Path, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// AssertError reports a failed assertion.
type AssertError struct {
	Got value.Value
}

func (e *AssertError) Error() string {
	return fmt.Sprintf("assertion failed: %s", e.Got.Show())
}

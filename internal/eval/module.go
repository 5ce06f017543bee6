// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nickandperla.net/ua/internal/format"
	"nickandperla.net/ua/internal/value"
	"nickandperla.net/ua/internal/word"
)

// primUse pops a name string and a module (a function array whose
// elements carry binding names) and pushes the matching function.
func (e *Evaluator) primUse() error {
	nameV, err := e.pop("use")
	if err != nil {
		return err
	}
	name, ok := nameV.AsString()
	if !ok {
		return &value.TypeError{Op: "use", Expected: "a name string", Got: nameV.Type(), Shape: nameV.Shape()}
	}
	mod, err := e.pop("use")
	if err != nil {
		return err
	}
	if mod.Type() != value.Fn {
		return &value.TypeError{Op: "use", Expected: "a module (function array)", Got: mod.Type(), Shape: mod.Shape()}
	}
	for _, fn := range mod.Fns() {
		if strings.EqualFold(fn.Name, name) {
			e.push(value.NewFn(fn))
			return nil
		}
	}
	return &BindingError{Name: name}
}

// primImport pops a file path and pushes the values its top-level code
// produces. A path already imported in this session is not re-run; its
// recorded values are replayed instead.
func (e *Evaluator) primImport() error {
	pathV, err := e.pop("import")
	if err != nil {
		return err
	}
	path, ok := pathV.AsString()
	if !ok {
		return &value.TypeError{Op: "import", Expected: "a path string", Got: pathV.Type(), Shape: pathV.Shape()}
	}
	return e.importFile(path)
}

func (e *Evaluator) importFile(path string) error {
	resolved := path
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(e.dir, resolved)
	}
	canonical, err := filepath.Abs(filepath.Clean(resolved))
	if err != nil {
		return &ImportError{Path: path, Err: err}
	}

	if entry, ok := e.imports[canonical]; ok {
		e.log.Debugf("replaying cached import of %s", canonical)
		e.stack = append(e.stack, entry.values...)
		return nil
	}
	if e.importing[canonical] {
		return &ImportError{Path: path, Err: fmt.Errorf("import cycle")}
	}

	src, err := os.ReadFile(canonical)
	if err != nil {
		return &ImportError{Path: path, Err: err}
	}
	formatted, err := format.Format(string(src))
	if err != nil {
		return &ImportError{Path: path, Err: err}
	}
	file, err := word.Parse(formatted)
	if err != nil {
		return &ImportError{Path: path, Err: err}
	}

	// The imported file runs with its own bindings and directory, in
	// normal mode, against the shared stack.
	savedBindings, savedMode, savedDir := e.bindings, e.mode, e.dir
	savedCapture := e.captureBase
	e.bindings = map[string]*binding{}
	e.mode = ModeNormal
	e.dir = filepath.Dir(canonical)
	e.importing[canonical] = true
	depth := len(e.stack)
	e.captureBase = depth

	e.log.Infof("importing %s", canonical)
	runErr := e.runFile(file)

	delete(e.importing, canonical)
	e.bindings, e.mode, e.dir = savedBindings, savedMode, savedDir
	e.captureBase = savedCapture
	if runErr != nil {
		return &ImportError{Path: path, Err: runErr}
	}

	if len(e.stack) < depth {
		depth = len(e.stack)
	}
	produced := make([]value.Value, len(e.stack)-depth)
	copy(produced, e.stack[depth:])
	e.imports[canonical] = &importEntry{values: produced}
	return nil
}

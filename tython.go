// Package tython implements a small dynamically-evaluated scripting
// language with optional static type annotations over a Python-flavored
// expression syntax: a lexer, a recursive-descent parser, and a
// tree-walking evaluator over a lexically-scoped environment.
package tython

import "io"

// Version identifies this implementation of the language, independent of
// any given program's behavior.
const Version = "0.1.0"

// Interpreter bundles a resolved configuration and the global scope every
// program execution is rooted in.
type Interpreter struct {
	cfg    *InterpreterConfig
	global *SymbolTable
}

// NewInterpreter builds an interpreter with the given configuration (nil
// selects DefaultConfig), pre-populating the global scope with True,
// False, Null, and every built-in SystemFunction.
func NewInterpreter(cfg *InterpreterConfig) *Interpreter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	configureLogging(cfg)

	global := NewSymbolTable(nil)
	global.Set("Null", NewNull())
	global.Set("True", NewBool(true))
	global.Set("False", NewBool(false))
	for name := range systemFunctionArgs {
		global.Set(name, NewSystemFunction(name))
	}

	return &Interpreter{cfg: cfg, global: global}
}

// Run lexes, parses, and evaluates the named source text from scratch,
// returning the evaluation of the top-level program (a List of each
// statement's value) or the first pipeline error encountered.
func (in *Interpreter) Run(filename, text string) (*Value, *Error) {
	ctx := NewContext("<program>", nil, nil)
	ctx.SymbolTable = in.global

	ev := NewEvaluator(in.cfg)
	return ev.runSource(filename, text, ctx)
}

// Run is the package-level entry point: a fresh Interpreter with default
// configuration, for callers that don't need to reuse global state or
// configuration across multiple runs.
func Run(filename, text string) (*Value, *Error) {
	return NewInterpreter(nil).Run(filename, text)
}

// RunWithStreams behaves like Run, except the print/input/input_int/clear
// built-ins read from stdin and write to out for the duration of this
// call, instead of the process's real stdin/stdout.
func (in *Interpreter) RunWithStreams(filename, text string, out io.Writer, stdin io.Reader) (*Value, *Error) {
	ctx := NewContext("<program>", nil, nil)
	ctx.SymbolTable = in.global

	ev := NewEvaluator(in.cfg)
	ev.io = newIOStreams(out, stdin)
	return ev.runSource(filename, text, ctx)
}

// RunWithStreams is the package-level entry point for RunWithStreams: a
// fresh Interpreter with default configuration.
func RunWithStreams(filename, text string, out io.Writer, stdin io.Reader) (*Value, *Error) {
	return NewInterpreter(nil).RunWithStreams(filename, text, out, stdin)
}

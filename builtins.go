package tython

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/juju/errors"
)

// systemFunctionArgs names the declared parameters of each built-in, in
// the order callSystemFunction binds them from the call site.
var systemFunctionArgs = map[string][]string{
	"print":     {"value"},
	"input":     {},
	"input_int": {},
	"clear":     {},
	"type":      {"value"},
	"len":       {"list"},
	"run":       {"fn"},
	"return":    {"value"},
}

// ioStreams lets callers redirect the print/input built-ins away from the
// real stdout/stdin; Interpreter.RunWithStreams and the package-level
// RunWithStreams install them for the duration of a single program run.
type ioStreams struct {
	out io.Writer
	in  *bufio.Reader
}

func defaultStreams() *ioStreams {
	return &ioStreams{out: os.Stdout, in: bufio.NewReader(os.Stdin)}
}

func newIOStreams(out io.Writer, in io.Reader) *ioStreams {
	return &ioStreams{out: out, in: bufio.NewReader(in)}
}

func (e *Evaluator) callSystemFunction(fnVal *Value, args []*Value, ctx *Context) (*Value, *Error) {
	name := fnVal.SysFn
	params, ok := systemFunctionArgs[name]
	if !ok {
		return nil, NewRuntimeError(fnVal.PosStart, fnVal.PosEnd, fmt.Sprintf("no system function %q defined", name), ctx)
	}

	if err := checkArgCount(name, len(params), len(args), fnVal); err != nil {
		return nil, err
	}

	execCtx := NewContext(displayNameFor(name), ctx, fnVal.PosStart)
	execCtx.SymbolTable = NewSymbolTable(nil)
	for i, p := range params {
		args[i].SetContext(execCtx)
		execCtx.SymbolTable.Set(p, args[i])
	}

	switch name {
	case "print":
		return e.executePrint(execCtx)
	case "input":
		return e.executeInput(execCtx)
	case "input_int":
		return e.executeInputInt(execCtx)
	case "clear":
		return e.executeClear(execCtx)
	case "type":
		return e.executeType(execCtx)
	case "len":
		return e.executeLen(execCtx, fnVal)
	case "run":
		return e.executeRun(execCtx, fnVal)
	case "return":
		return e.executeReturn(execCtx)
	default:
		return nil, NewRuntimeError(fnVal.PosStart, fnVal.PosEnd, fmt.Sprintf("no execute_%s method defined", name), ctx)
	}
}

func (e *Evaluator) streams() *ioStreams {
	if e.io == nil {
		e.io = defaultStreams()
	}
	return e.io
}

func (e *Evaluator) executePrint(ctx *Context) (*Value, *Error) {
	v, _ := ctx.SymbolTable.Get("value")
	fmt.Fprintln(e.streams().out, v.String())
	return NewNull(), nil
}

func (e *Evaluator) executeInput(ctx *Context) (*Value, *Error) {
	line, _ := e.streams().in.ReadString('\n')
	return NewString(trimNewline(line)), nil
}

func (e *Evaluator) executeInputInt(ctx *Context) (*Value, *Error) {
	for {
		line, _ := e.streams().in.ReadString('\n')
		line = trimNewline(line)
		n, err := strconv.ParseInt(line, 10, 64)
		if err == nil {
			return NewInt(n), nil
		}
		fmt.Fprintf(e.streams().out, "'%s' must be of type <Int>\n", line)
	}
}

func (e *Evaluator) executeClear(ctx *Context) (*Value, *Error) {
	fmt.Fprint(e.streams().out, "\033[H\033[2J")
	return NewNull(), nil
}

func (e *Evaluator) executeType(ctx *Context) (*Value, *Error) {
	v, _ := ctx.SymbolTable.Get("value")
	return NewType(v.Kind), nil
}

func (e *Evaluator) executeLen(ctx *Context, fnVal *Value) (*Value, *Error) {
	v, _ := ctx.SymbolTable.Get("list")
	if v.Kind != TypeList {
		return nil, NewRuntimeError(fnVal.PosStart, fnVal.PosEnd, "Argument must be a List", fnVal.Context)
	}
	return NewInt(int64(len(v.List))), nil
}

// executeRun reads a file and re-enters the full lexer/parser/evaluator
// pipeline over its contents, in a fresh program context chained to the
// global scope. File-read failures are wrapped with juju/errors at this
// host boundary, then folded into a single RuntimeError.
func (e *Evaluator) executeRun(ctx *Context, fnVal *Value) (*Value, *Error) {
	fnArg, _ := ctx.SymbolTable.Get("fn")
	if fnArg.Kind != TypeString {
		return nil, NewRuntimeError(fnVal.PosStart, fnVal.PosEnd, "Argument must be a String", fnVal.Context)
	}

	filename := fnArg.Str
	data, err := os.ReadFile(filename)
	if err != nil {
		wrapped := errors.Annotatef(err, "run: reading %q", filename)
		return nil, NewRuntimeError(fnVal.PosStart, fnVal.PosEnd, wrapped.Error(), fnVal.Context)
	}

	runCtx := NewContext("<program>", nil, nil)
	runCtx.SymbolTable = rootSymbolTable(ctx.Parent.SymbolTable)

	result, runErr := e.runSource(filename, string(data), runCtx)
	if runErr != nil {
		return nil, NewRuntimeError(fnVal.PosStart, fnVal.PosEnd, runErr.Error(), fnVal.Context)
	}
	return result, nil
}

// rootSymbolTable walks to the outermost parent, which is the global
// table `run` was originally invoked with.
func rootSymbolTable(t *SymbolTable) *SymbolTable {
	for t.Parent != nil {
		t = t.Parent
	}
	return t
}

// runSource lexes, parses, and evaluates source text in ctx, used both by
// the top-level Run entry point and the `run` built-in.
func (e *Evaluator) runSource(filename, text string, ctx *Context) (*Value, *Error) {
	tokens, err := Lex(filename, text)
	if err != nil {
		return nil, err
	}
	program, err := Parse(tokens)
	if err != nil {
		return nil, err
	}
	res := e.Eval(program, ctx)
	if res.err != nil {
		return nil, res.err
	}
	return res.value, nil
}

// executeReturn coerces the `return` built-in's argument to its own
// runtime type for primitive kinds, else stringifies it; see spec's open
// question on execute_return vs. the return statement.
func (e *Evaluator) executeReturn(ctx *Context) (*Value, *Error) {
	v, _ := ctx.SymbolTable.Get("value")
	switch v.Kind {
	case TypeInt:
		return NewInt(v.Int), nil
	case TypeFloat:
		return NewFloat(v.Float), nil
	case TypeString:
		return NewString(v.Str), nil
	case TypeBool:
		return NewBool(v.Bool), nil
	default:
		return NewString(v.String()), nil
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

package tython

import "fmt"

// runtimeResult carries the outcome of evaluating one node: at most one
// of {value, err, a pending return value, a break signal, a continue
// signal} is ever live at once. Every visitor that delegates to a
// sub-evaluation must check shouldReturn() immediately afterward and
// propagate without further work.
type runtimeResult struct {
	value *Value
	err   *Error

	funcReturnValue *Value
	loopShouldBreak bool
	loopShouldCont  bool
}

func (r *runtimeResult) reset() {
	*r = runtimeResult{}
}

func (r *runtimeResult) shouldReturn() bool {
	return r.err != nil || r.funcReturnValue != nil || r.loopShouldBreak || r.loopShouldCont
}

// register folds a sub-result's value/signals into r.
func (r *runtimeResult) register(sub *runtimeResult) *Value {
	r.err = sub.err
	r.funcReturnValue = sub.funcReturnValue
	r.loopShouldBreak = sub.loopShouldBreak
	r.loopShouldCont = sub.loopShouldCont
	return sub.value
}

func (r *runtimeResult) success(v *Value) *runtimeResult {
	r.reset()
	r.value = v
	return r
}

func (r *runtimeResult) successReturn(v *Value) *runtimeResult {
	r.reset()
	r.funcReturnValue = v
	return r
}

func (r *runtimeResult) successBreak() *runtimeResult {
	r.reset()
	r.loopShouldBreak = true
	return r
}

func (r *runtimeResult) successContinue() *runtimeResult {
	r.reset()
	r.loopShouldCont = true
	return r
}

func (r *runtimeResult) failure(err *Error) *runtimeResult {
	r.reset()
	r.err = err
	return r
}

// Evaluator tree-walks an AST, dispatching on each node's concrete Go
// type via a type switch rather than reflection-based "visit_"+classname
// lookup. A node variant without a matching case is not caught at compile
// time; it reaches the default arm and fails with a RuntimeError.
type Evaluator struct {
	cfg *InterpreterConfig
	io  *ioStreams
}

// NewEvaluator builds an evaluator bound to the given configuration
// (call-depth limit, debug logging).
func NewEvaluator(cfg *InterpreterConfig) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// Eval dispatches a single node in the given context.
func (e *Evaluator) Eval(node Node, ctx *Context) *runtimeResult {
	res := &runtimeResult{}

	switch n := node.(type) {
	case *Program:
		return e.evalProgram(n, ctx)
	case *IntLit:
		start, end := n.Span()
		return res.success(NewInt(n.Tok.Value.(int64)).SetContext(ctx).SetPos(start, end))
	case *FloatLit:
		start, end := n.Span()
		return res.success(NewFloat(n.Tok.Value.(float64)).SetContext(ctx).SetPos(start, end))
	case *StringLit:
		start, end := n.Span()
		return res.success(NewString(n.Tok.Value.(string)).SetContext(ctx).SetPos(start, end))
	case *ListLit:
		return e.evalListLit(n, ctx)
	case *VarAccess:
		return e.evalVarAccess(n, ctx)
	case *VarAssign:
		return e.evalVarAssign(n, ctx)
	case *BinOp:
		return e.evalBinOp(n, ctx)
	case *UnaryOp:
		return e.evalUnaryOp(n, ctx)
	case *If:
		return e.evalIf(n, ctx)
	case *For:
		return e.evalFor(n, ctx)
	case *While:
		return e.evalWhile(n, ctx)
	case *FuncDef:
		return e.evalFuncDef(n, ctx)
	case *Call:
		return e.evalCall(n, ctx)
	case *Return:
		return e.evalReturn(n, ctx)
	case *Continue:
		return res.successContinue()
	case *Break:
		return res.successBreak()
	default:
		return res.failure(NewRuntimeError(nil, nil, fmt.Sprintf("no eval rule for %T", node), ctx))
	}
}

func (e *Evaluator) evalProgram(n *Program, ctx *Context) *runtimeResult {
	res := &runtimeResult{}
	var elements []*Value

	for _, stmt := range n.Statements {
		v := res.register(e.Eval(stmt, ctx))
		if res.shouldReturn() {
			return res
		}
		elements = append(elements, v)
	}

	start, end := n.Span()
	return res.success(NewList(elements).SetContext(ctx).SetPos(start, end))
}

func (e *Evaluator) evalListLit(n *ListLit, ctx *Context) *runtimeResult {
	res := &runtimeResult{}
	elements := make([]*Value, 0, len(n.Elements))

	for _, elemNode := range n.Elements {
		v := res.register(e.Eval(elemNode, ctx))
		if res.shouldReturn() {
			return res
		}
		elements = append(elements, v)
	}

	start, end := n.Span()
	return res.success(NewList(elements).SetContext(ctx).SetPos(start, end))
}

func (e *Evaluator) evalVarAccess(n *VarAccess, ctx *Context) *runtimeResult {
	res := &runtimeResult{}
	name := n.NameTok.Value.(string)

	v, ok := ctx.SymbolTable.Get(name)
	if !ok {
		start, end := n.Span()
		return res.failure(NewRuntimeError(start, end, fmt.Sprintf("%s is not defined", name), ctx))
	}

	start, end := n.Span()
	return res.success(v.Copy().SetPos(start, end).SetContext(ctx))
}

func (e *Evaluator) evalVarAssign(n *VarAssign, ctx *Context) *runtimeResult {
	res := &runtimeResult{}
	name := n.NameTok.Value.(string)

	value := res.register(e.Eval(n.Value, ctx))
	if res.shouldReturn() {
		return res
	}

	if !value.matchesDeclaredType(n.DeclaredType) {
		return res.failure(NewError(TypeErrorKind, n.NameTok.PosStart, n.NameTok.PosEnd,
			fmt.Sprintf("Cannot assign '%s' <%s> to variable of type <%s>", name, value.Kind, n.DeclaredType)))
	}

	ctx.SymbolTable.Set(name, value)
	return res.success(value)
}

func (e *Evaluator) evalBinOp(n *BinOp, ctx *Context) *runtimeResult {
	res := &runtimeResult{}

	left := res.register(e.Eval(n.Left, ctx))
	if res.shouldReturn() {
		return res
	}
	right := res.register(e.Eval(n.Right, ctx))
	if res.shouldReturn() {
		return res
	}

	var result *Value
	var opErr *Error

	switch {
	case n.OpTok.Type == TokenPlus:
		result, opErr = left.Add(right)
	case n.OpTok.Type == TokenMinus:
		result, opErr = left.Subtract(right)
	case n.OpTok.Type == TokenMul:
		result, opErr = left.Multiply(right)
	case n.OpTok.Type == TokenDiv:
		result, opErr = left.Divide(right)
	case n.OpTok.Type == TokenPower:
		result, opErr = left.Power(right)
	case n.OpTok.Type == TokenEE:
		result, opErr = left.CompareEq(right)
	case n.OpTok.Type == TokenNE:
		result, opErr = left.CompareNe(right)
	case n.OpTok.Type == TokenLT:
		result, opErr = left.CompareLt(right)
	case n.OpTok.Type == TokenGT:
		result, opErr = left.CompareGt(right)
	case n.OpTok.Type == TokenLTE:
		result, opErr = left.CompareLte(right)
	case n.OpTok.Type == TokenGTE:
		result, opErr = left.CompareGte(right)
	case n.OpTok.Matches(TokenKeyword, "and"):
		result, opErr = left.And(right)
	case n.OpTok.Matches(TokenKeyword, "or"):
		result, opErr = left.Or(right)
	default:
		return res.failure(NewRuntimeError(n.OpTok.PosStart, n.OpTok.PosEnd, "Illegal operation", ctx))
	}

	if opErr != nil {
		return res.failure(opErr)
	}
	start, end := n.Span()
	return res.success(result.SetPos(start, end))
}

func (e *Evaluator) evalUnaryOp(n *UnaryOp, ctx *Context) *runtimeResult {
	res := &runtimeResult{}

	operand := res.register(e.Eval(n.Operand, ctx))
	if res.shouldReturn() {
		return res
	}

	var result *Value
	var opErr *Error

	switch {
	case n.OpTok.Type == TokenMinus:
		result, opErr = operand.Negate()
	case n.OpTok.Matches(TokenKeyword, "not"):
		result, opErr = operand.Not()
	default:
		result = operand
	}

	if opErr != nil {
		return res.failure(opErr)
	}
	start, end := n.Span()
	return res.success(result.SetPos(start, end))
}

func (e *Evaluator) evalIf(n *If, ctx *Context) *runtimeResult {
	res := &runtimeResult{}

	for _, c := range n.Cases {
		cond := res.register(e.Eval(c.Cond, ctx))
		if res.shouldReturn() {
			return res
		}

		if cond.IsTrue() {
			body := res.register(e.Eval(c.Body, ctx))
			if res.shouldReturn() {
				return res
			}
			if c.BodyIsBlock {
				return res.success(NewNull())
			}
			return res.success(body)
		}
	}

	if n.Else != nil {
		body := res.register(e.Eval(n.Else.Body, ctx))
		if res.shouldReturn() {
			return res
		}
		if n.Else.BodyIsBlock {
			return res.success(NewNull())
		}
		return res.success(body)
	}

	return res.success(NewNull())
}

func (e *Evaluator) evalFor(n *For, ctx *Context) *runtimeResult {
	res := &runtimeResult{}
	var elements []*Value

	startVal := res.register(e.Eval(n.Start, ctx))
	if res.shouldReturn() {
		return res
	}
	endVal := res.register(e.Eval(n.End, ctx))
	if res.shouldReturn() {
		return res
	}

	stepVal := NewInt(1)
	if n.Step != nil {
		stepVal = res.register(e.Eval(n.Step, ctx))
		if res.shouldReturn() {
			return res
		}
	}

	name := n.VarTok.Value.(string)
	i := startVal.asFloat()
	step := stepVal.asFloat()

	condition := func() bool {
		if step >= 0 {
			return i < endVal.asFloat()
		}
		return i > endVal.asFloat()
	}

	for condition() {
		ctx.SymbolTable.Set(name, NewInt(int64(i)))
		i += step

		value := res.register(e.Eval(n.Body, ctx))
		if res.shouldReturn() && !res.loopShouldCont && !res.loopShouldBreak {
			return res
		}

		cont, brk := res.loopShouldCont, res.loopShouldBreak
		res.loopShouldCont, res.loopShouldBreak = false, false

		if cont {
			continue
		}
		if brk {
			break
		}
		elements = append(elements, value)
	}

	if n.BodyIsBlock {
		return res.success(NewNull())
	}
	start, end := n.Span()
	return res.success(NewList(elements).SetContext(ctx).SetPos(start, end))
}

func (e *Evaluator) evalWhile(n *While, ctx *Context) *runtimeResult {
	res := &runtimeResult{}
	var elements []*Value

	for {
		cond := res.register(e.Eval(n.Cond, ctx))
		if res.shouldReturn() {
			return res
		}
		if !cond.IsTrue() {
			break
		}

		value := res.register(e.Eval(n.Body, ctx))
		if res.shouldReturn() && !res.loopShouldCont && !res.loopShouldBreak {
			return res
		}

		cont, brk := res.loopShouldCont, res.loopShouldBreak
		res.loopShouldCont, res.loopShouldBreak = false, false

		if cont {
			continue
		}
		if brk {
			break
		}
		elements = append(elements, value)
	}

	if n.BodyIsBlock {
		return res.success(NewNull())
	}
	start, end := n.Span()
	return res.success(NewList(elements).SetContext(ctx).SetPos(start, end))
}

func (e *Evaluator) evalFuncDef(n *FuncDef, ctx *Context) *runtimeResult {
	res := &runtimeResult{}

	var name string
	if n.NameTok != nil {
		name = n.NameTok.Value.(string)
	}

	argNames := make([]string, len(n.ArgNames))
	for i, tok := range n.ArgNames {
		argNames[i] = tok.Value.(string)
	}

	start, end := n.Span()
	fn := NewFunction(&Function{
		Name:       name,
		Body:       n.Body,
		ArgNames:   argNames,
		DefContext: ctx,
		AutoReturn: n.AutoReturn,
	}).SetContext(ctx).SetPos(start, end)

	if n.NameTok != nil {
		ctx.SymbolTable.Set(name, fn)
	}

	return res.success(fn)
}

func (e *Evaluator) evalCall(n *Call, ctx *Context) *runtimeResult {
	res := &runtimeResult{}

	callee := res.register(e.Eval(n.Callee, ctx))
	if res.shouldReturn() {
		return res
	}
	start, end := n.Span()
	callee = callee.Copy().SetPos(start, end)

	args := make([]*Value, 0, len(n.Args))
	for _, argNode := range n.Args {
		v := res.register(e.Eval(argNode, ctx))
		if res.shouldReturn() {
			return res
		}
		args = append(args, v)
	}

	var result *Value
	var err *Error

	switch callee.Kind {
	case TypeFunction:
		result, err = e.callFunction(callee, args, ctx)
	case TypeSystemFunction:
		result, err = e.callSystemFunction(callee, args, ctx)
	default:
		err = NewRuntimeError(start, end, "value is not callable", ctx)
	}

	if err != nil {
		return res.failure(err)
	}
	return res.success(result.Copy().SetPos(start, end).SetContext(ctx))
}

// callFunction invokes a user-defined function. The call context's
// parent is the function's *definition* context, not the caller's — this
// is what gives Tython lexical scoping and real closures.
func (e *Evaluator) callFunction(fnVal *Value, args []*Value, ctx *Context) (*Value, *Error) {
	fn := fnVal.Func

	if err := checkArgCount(fn.Name, len(fn.ArgNames), len(args), fnVal); err != nil {
		return nil, err
	}

	callCtx := NewContext(displayNameFor(fn.Name), fn.DefContext, fnVal.PosStart)
	callCtx.CallDepth = ctx.CallDepth + 1
	if err := e.guardCallDepth(callCtx, fnVal); err != nil {
		return nil, err
	}
	logger.Debugf("calling %s at depth %d", displayNameFor(fn.Name), callCtx.CallDepth)
	callCtx.SymbolTable = NewSymbolTable(fn.DefContext.SymbolTable)

	for i, argName := range fn.ArgNames {
		args[i].SetContext(callCtx)
		callCtx.SymbolTable.Set(argName, args[i])
	}

	bodyRes := e.Eval(fn.Body, callCtx)
	if bodyRes.err != nil {
		return nil, bodyRes.err
	}

	if fn.AutoReturn && bodyRes.value != nil {
		return bodyRes.value, nil
	}
	if bodyRes.funcReturnValue != nil {
		return bodyRes.funcReturnValue, nil
	}
	return NewNull(), nil
}

func displayNameFor(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}

func checkArgCount(name string, want, got int, fnVal *Value) *Error {
	if got > want {
		return NewRuntimeError(fnVal.PosStart, fnVal.PosEnd,
			fmt.Sprintf("too many args passed into '%s' (Expected %d)", displayNameFor(name), want), fnVal.Context)
	}
	if got < want {
		return NewRuntimeError(fnVal.PosStart, fnVal.PosEnd,
			fmt.Sprintf("too few args passed into '%s' (Expected %d)", displayNameFor(name), want), fnVal.Context)
	}
	return nil
}

func (e *Evaluator) guardCallDepth(callCtx *Context, fnVal *Value) *Error {
	maxDepth := 1000
	if e.cfg != nil && e.cfg.MaxCallDepth > 0 {
		maxDepth = e.cfg.MaxCallDepth
	}
	if callCtx.CallDepth > maxDepth {
		return NewRuntimeError(fnVal.PosStart, fnVal.PosEnd, "maximum call depth exceeded", fnVal.Context)
	}
	return nil
}

func (e *Evaluator) evalReturn(n *Return, ctx *Context) *runtimeResult {
	res := &runtimeResult{}

	var value *Value = NewNull()
	if n.Expr != nil {
		value = res.register(e.Eval(n.Expr, ctx))
		if res.shouldReturn() {
			return res
		}
	}

	return res.successReturn(value)
}

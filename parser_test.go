package tython

import "testing"

func parseOne(t *testing.T, src string) Node {
	t.Helper()
	tokens, err := Lex("<test>", src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	program, err := Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(program.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(program.Statements))
	}
	return program.Statements[0]
}

func TestParsePrecedence(t *testing.T) {
	node := parseOne(t, "1+2*3")
	bin, ok := node.(*BinOp)
	if !ok || bin.OpTok.Type != TokenPlus {
		t.Fatalf("top node = %#v, want BinOp(+)", node)
	}
	right, ok := bin.Right.(*BinOp)
	if !ok || right.OpTok.Type != TokenMul {
		t.Fatalf("right node = %#v, want BinOp(*)", bin.Right)
	}
}

func TestParsePowerRightAssociative(t *testing.T) {
	node := parseOne(t, "2^3^2")
	bin, ok := node.(*BinOp)
	if !ok || bin.OpTok.Type != TokenPower {
		t.Fatalf("top node = %#v, want BinOp(^)", node)
	}
	left, ok := bin.Left.(*IntLit)
	if !ok || left.Tok.Value != int64(2) {
		t.Fatalf("left = %#v, want IntLit(2)", bin.Left)
	}
	right, ok := bin.Right.(*BinOp)
	if !ok || right.OpTok.Type != TokenPower {
		t.Fatalf("right = %#v, want BinOp(^)", bin.Right)
	}
}

func TestParseBlockAndInlineIfEquivalence(t *testing.T) {
	inline := parseOne(t, "if x: y")
	block := parseOne(t, "if x:\ny\nstop")

	inlineIf, ok := inline.(*If)
	if !ok || len(inlineIf.Cases) != 1 || inlineIf.Cases[0].BodyIsBlock {
		t.Fatalf("inline if = %#v", inline)
	}

	blockIf, ok := block.(*If)
	if !ok || len(blockIf.Cases) != 1 || !blockIf.Cases[0].BodyIsBlock {
		t.Fatalf("block if = %#v", block)
	}
}

func TestParseTypedAssignment(t *testing.T) {
	node := parseOne(t, "int x = 3")
	assign, ok := node.(*VarAssign)
	if !ok {
		t.Fatalf("node = %#v, want VarAssign", node)
	}
	if assign.DeclaredType != TypeInt {
		t.Fatalf("declared type = %v, want Int", assign.DeclaredType)
	}
	if assign.NameTok.Value != "x" {
		t.Fatalf("name = %v, want x", assign.NameTok.Value)
	}
}

func TestParseFuncDefAutoReturn(t *testing.T) {
	node := parseOne(t, "def add(a, b) -> a + b")
	fn, ok := node.(*FuncDef)
	if !ok {
		t.Fatalf("node = %#v, want FuncDef", node)
	}
	if !fn.AutoReturn {
		t.Fatal("expected AutoReturn = true")
	}
	if len(fn.ArgNames) != 2 {
		t.Fatalf("got %d args, want 2", len(fn.ArgNames))
	}
}

func TestParseForExpr(t *testing.T) {
	node := parseOne(t, "for i = 1 to 5 step 2: i")
	forNode, ok := node.(*For)
	if !ok {
		t.Fatalf("node = %#v, want For", node)
	}
	if forNode.VarTok.Value != "i" {
		t.Fatalf("var = %v, want i", forNode.VarTok.Value)
	}
	if forNode.Step == nil {
		t.Fatal("expected explicit step node")
	}
}

func TestParseCallExpr(t *testing.T) {
	node := parseOne(t, "add(2, 3)")
	call, ok := node.(*Call)
	if !ok {
		t.Fatalf("node = %#v, want Call", node)
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
}

func TestParseSyntaxErrorSpan(t *testing.T) {
	tokens, err := Lex("<test>", "1 +")
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	_, perr := Parse(tokens)
	if perr == nil {
		t.Fatal("expected a syntax error")
	}
	if perr.Kind != SyntaxErrorKind {
		t.Fatalf("kind = %v, want SyntaxError", perr.Kind)
	}
	// The span starts at the EOF token where the right operand is missing.
	if perr.PosStart == nil || perr.PosStart.Column != 3 {
		t.Fatalf("error start = %+v, want column 3", perr.PosStart)
	}
}

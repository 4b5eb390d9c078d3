package tython

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/kr/pretty"
)

func runProgram(t *testing.T, src string) (*Value, *Error) {
	t.Helper()
	return Run("<test>", src)
}

func lastElement(t *testing.T, v *Value) *Value {
	t.Helper()
	if v.Kind != TypeList || len(v.List) == 0 {
		t.Fatalf("expected non-empty top-level List, got %#v", pretty.Formatter(v))
	}
	return v.List[len(v.List)-1]
}

// TestEvalRecursionHitsCallDepthGuard exercises the real call stack: a
// self-recursive function with no base case must be stopped by
// guardCallDepth's RuntimeError, not a Go stack overflow. Before the
// call-depth counter was threaded from the caller's Context instead of
// the function's (constant) DefContext, this recursion would never be
// seen as deepening and would crash the process instead.
func TestEvalRecursionHitsCallDepthGuard(t *testing.T) {
	in := NewInterpreter(&InterpreterConfig{MaxCallDepth: 50})
	_, err := in.Run("<test>", "def loop(n) -> loop(n + 1)\nloop(0)")
	if err == nil {
		t.Fatal("expected a RuntimeError for unbounded recursion, got none")
	}
	if err.Kind != RuntimeErrorKind {
		t.Fatalf("err.Kind = %v, want RuntimeErrorKind", err.Kind)
	}
	if !strings.Contains(err.Error(), "maximum call depth exceeded") {
		t.Fatalf("err.Error() = %q, want it to mention the call depth guard", err.Error())
	}
}

// TestEvalBoundedRecursionSucceeds confirms legitimate recursion within
// the configured depth still returns the right answer rather than
// spuriously tripping the guard.
func TestEvalBoundedRecursionSucceeds(t *testing.T) {
	in := NewInterpreter(&InterpreterConfig{MaxCallDepth: 50})
	v, err := in.Run("<test>", "def countdown(n) -> if n <= 0: 0 else: countdown(n - 1)\ncountdown(20)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	if last.Kind != TypeInt || last.Int != 0 {
		t.Fatalf("got %#v, want Int(0)", pretty.Formatter(last))
	}
}

func TestEvalPowerRightAssociative(t *testing.T) {
	v, err := runProgram(t, "int x = 2^3^2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	if last.Kind != TypeInt || last.Int != 512 {
		t.Fatalf("got %#v, want Int(512)", pretty.Formatter(last))
	}
}

func TestEvalStringRepetition(t *testing.T) {
	v, err := runProgram(t, `str s = "ab" * 3`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	if last.Kind != TypeString || last.Str != "ababab" {
		t.Fatalf("got %#v, want String(ababab)", pretty.Formatter(last))
	}
}

func TestEvalFunctionCall(t *testing.T) {
	v, err := runProgram(t, "def add(a,b) -> a+b\nadd(2,3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	if last.Kind != TypeInt || last.Int != 5 {
		t.Fatalf("got %#v, want Int(5)", pretty.Formatter(last))
	}
}

func TestEvalForLoopSum(t *testing.T) {
	v, err := runProgram(t, "int n = 0\nfor i = 1 to 5: int n = n + i\nn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	if last.Kind != TypeInt || last.Int != 10 {
		t.Fatalf("got %#v, want Int(10)", pretty.Formatter(last))
	}
}

func TestEvalIfExpression(t *testing.T) {
	v, err := runProgram(t, `if 1 < 2: "yes" else "no"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	if last.Kind != TypeString || last.Str != "yes" {
		t.Fatalf("got %#v, want String(yes)", pretty.Formatter(last))
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	_, err := runProgram(t, "1 / 0")
	if err == nil {
		t.Fatal("expected RuntimeError")
	}
	if err.Kind != RuntimeErrorKind || !strings.Contains(err.Details, "Cannot divide by zero") {
		t.Fatalf("got %v", err)
	}
}

func TestEvalTypeCheckSuccess(t *testing.T) {
	if _, err := runProgram(t, "int x = 3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := runProgram(t, "num x = 3.5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEvalTypeCheckFailure(t *testing.T) {
	_, err := runProgram(t, `int x = "hi"`)
	if err == nil {
		t.Fatal("expected TypeError")
	}
	if err.Kind != TypeErrorKind {
		t.Fatalf("kind = %v, want TypeError", err.Kind)
	}

	_, err = runProgram(t, `num x = "s"`)
	if err == nil {
		t.Fatal("expected TypeError")
	}
}

func TestEvalLexicalScopeClosure(t *testing.T) {
	src := "def f() -> g()\ndef g() -> 42\nf()"
	v, err := runProgram(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	if last.Kind != TypeInt || last.Int != 42 {
		t.Fatalf("got %#v, want Int(42)", pretty.Formatter(last))
	}
}

func TestEvalLoopBreak(t *testing.T) {
	v, err := runProgram(t, "for i = 0 to 10: if i == 3: break\ni")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	if last.Kind != TypeInt || last.Int != 3 {
		t.Fatalf("got %#v, want Int(3) (loop should break when i == 3)", pretty.Formatter(last))
	}
}

func TestEvalLoopContinue(t *testing.T) {
	src := "int n = 0\nfor i = 0 to 5:\nif i == 2: continue\nint n = n + 1\nstop\nn"
	v, err := runProgram(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	// i runs 0..4; i == 2 skips the increment, so n only grows on the
	// other four iterations.
	const want = 4
	if last.Kind != TypeInt || last.Int != want {
		t.Fatalf("got %#v, want Int(%d)", pretty.Formatter(last), want)
	}
}

func TestEvalForLoopCollectsElementValues(t *testing.T) {
	v, err := runProgram(t, "for i = 0 to 4: i * i")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	if last.Kind != TypeList {
		t.Fatalf("got %#v, want List", pretty.Formatter(last))
	}
	got := make([]int64, len(last.List))
	for i, e := range last.List {
		got[i] = e.Int
	}
	want := []int64{0, 1, 4, 9}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("squared elements mismatch (-want +got):\n%s", diff)
	}
}

func TestEvalEmptyListLiteral(t *testing.T) {
	v, err := runProgram(t, "[]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	if last.Kind != TypeList {
		t.Fatalf("got %#v, want List", pretty.Formatter(last))
	}
	if diff := cmp.Diff([]*Value(nil), last.List, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("expected empty list, diff:\n%s", diff)
	}
}

func TestEvalListBuiltinLen(t *testing.T) {
	v, err := runProgram(t, "len([1,2,3])")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	if last.Kind != TypeInt || last.Int != 3 {
		t.Fatalf("got %#v, want Int(3)", pretty.Formatter(last))
	}
}

func TestEvalLenRejectsNonList(t *testing.T) {
	_, err := runProgram(t, `len("abc")`)
	if err == nil {
		t.Fatal("expected RuntimeError")
	}
}

func TestEvalUndefinedVariable(t *testing.T) {
	_, err := runProgram(t, "y")
	if err == nil {
		t.Fatal("expected RuntimeError")
	}
	if !strings.Contains(err.Details, "is not defined") {
		t.Fatalf("details = %q", err.Details)
	}
}

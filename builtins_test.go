package tython

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltinPrintWritesToRedirectedStream(t *testing.T) {
	var out bytes.Buffer
	_, err := RunWithStreams("<test>", `print("hello")`, &out, strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "hello\n" {
		t.Fatalf("stdout = %q, want %q", got, "hello\n")
	}
}

func TestBuiltinInputReadsFromRedirectedStream(t *testing.T) {
	var out bytes.Buffer
	v, err := RunWithStreams("<test>", "input()", &out, strings.NewReader("Ada\nignored\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	if last.Kind != TypeString || last.Str != "Ada" {
		t.Fatalf("got %#v, want String(\"Ada\")", last)
	}
}

func TestBuiltinInputIntRetriesOnNonInteger(t *testing.T) {
	var out bytes.Buffer
	v, err := RunWithStreams("<test>", "input_int()", &out, strings.NewReader("not-a-number\n42\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lastElement(t, v)
	if last.Kind != TypeInt || last.Int != 42 {
		t.Fatalf("got %#v, want Int(42)", last)
	}
	if !strings.Contains(out.String(), "must be of type") {
		t.Fatalf("expected a re-prompt message in stdout, got %q", out.String())
	}
}

func TestBuiltinClearWritesAnsiResetSequence(t *testing.T) {
	var out bytes.Buffer
	_, err := RunWithStreams("<test>", "clear()", &out, strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "\033[H\033[2J") {
		t.Fatalf("stdout = %q, want it to contain the clear-screen escape sequence", out.String())
	}
}

func TestBuiltinRunExecutesAnotherFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.ty")
	if err := os.WriteFile(path, []byte("1 + 1"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	v, err := runProgram(t, `run("`+filepath.ToSlash(path)+`")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// run evaluates to the file's own program List, here [2].
	last := lastElement(t, lastElement(t, v))
	if last.Kind != TypeInt || last.Int != 2 {
		t.Fatalf("got %#v, want Int(2)", last)
	}
}

func TestBuiltinRunWrapsMissingFileError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist.ty")
	_, err := runProgram(t, `run("`+filepath.ToSlash(missing)+`")`)
	if err == nil {
		t.Fatal("expected an error for a missing file, got none")
	}
	if err.Kind != RuntimeErrorKind {
		t.Fatalf("err.Kind = %v, want RuntimeErrorKind", err.Kind)
	}
}

package tython

import (
	"testing"

	jujutesting "github.com/juju/testing"
	gc "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner, following the teacher's
// convention of one TestX per suite.

func TestErrors(t *testing.T) { gc.TestingT(t) }

type ErrorTestSuite struct {
	jujutesting.LoggingSuite
}

var _ = gc.Suite(&ErrorTestSuite{})

func (s *ErrorTestSuite) TestIllegalCharRendersCaret(c *gc.C) {
	_, err := Lex("<test>", "@")
	c.Assert(err, gc.NotNil)
	c.Check(err.Kind, gc.Equals, IllegalCharError)
	c.Check(err.Error(), gc.Matches, "(?s).*IllegalChar.*")
	c.Check(err.Error(), gc.Matches, `(?s).*\n\^.*`)
}

func (s *ErrorTestSuite) TestSyntaxErrorPreservesDeepestFailure(c *gc.C) {
	tokens, err := Lex("<test>", "1 + 2 +")
	c.Assert(err, gc.IsNil)

	_, perr := Parse(tokens)
	c.Assert(perr, gc.NotNil)
	c.Check(perr.Kind, gc.Equals, SyntaxErrorKind)
	// The atom-level message survives; the outer productions' fallback
	// messages do not replace it.
	c.Check(perr.Details, gc.Equals, "Expected int, float, identifier, '+', '-' or '('")
}

func (s *ErrorTestSuite) TestRuntimeErrorIncludesTraceback(c *gc.C) {
	_, err := Run("<test>", "def f() -> 1/0\nf()")
	c.Assert(err, gc.NotNil)
	c.Check(err.Kind, gc.Equals, RuntimeErrorKind)
	c.Check(err.Error(), gc.Matches, "(?s).*Traceback.*")
	c.Check(err.Error(), gc.Matches, "(?s).*Cannot divide by zero.*")
}

func (s *ErrorTestSuite) TestTypeErrorOnBadAssignment(c *gc.C) {
	_, err := Run("<test>", `int x = "nope"`)
	c.Assert(err, gc.NotNil)
	c.Check(err.Kind, gc.Equals, TypeErrorKind)
}

package tython

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TypeTag names a runtime value kind. It doubles as the reified payload
// of a Type value (e.g. the result of the `type` built-in).
type TypeTag int

const (
	TypeAny TypeTag = iota
	TypeNull
	TypeBool
	TypeNumber
	TypeInt
	TypeFloat
	TypeString
	TypeList
	TypeFunction
	TypeSystemFunction
	TypeType
)

var typeTagNames = map[TypeTag]string{
	TypeAny:            "Any",
	TypeNull:           "Null",
	TypeBool:           "Bool",
	TypeNumber:         "Number",
	TypeInt:            "Int",
	TypeFloat:          "Float",
	TypeString:         "String",
	TypeList:           "List",
	TypeFunction:       "Function",
	TypeSystemFunction: "SystemFunction",
	TypeType:           "Type",
}

func (t TypeTag) String() string {
	if name, ok := typeTagNames[t]; ok {
		return name
	}
	return "Unknown"
}

// typeTagFromKeyword maps a TYPE token's literal text to the tag it
// declares. Unrecognized text (shouldn't occur past the lexer) falls back
// to Any, matching the original implementation's behavior.
func typeTagFromKeyword(name string) TypeTag {
	switch name {
	case "any", "var":
		return TypeAny
	case "num":
		return TypeNumber
	case "int":
		return TypeInt
	case "float":
		return TypeFloat
	case "str":
		return TypeString
	default:
		return TypeAny
	}
}

// Value is Tython's single tagged runtime value. Only the field(s)
// relevant to Kind are meaningful; arithmetic, comparison, and logical
// operators are implemented as methods that switch on Kind explicitly and
// return an error for any unsupported combination, rather than silently
// producing a zero value.
type Value struct {
	Kind TypeTag

	Int    int64
	Float  float64
	Str    string
	Bool   bool
	List   []*Value
	Func   *Function
	SysFn  string
	TypeOf TypeTag

	PosStart *Position
	PosEnd   *Position
	Context  *Context
}

// Function is a first-class, closure-capturing user-defined function.
type Function struct {
	Name       string // "" for anonymous
	Body       Node
	ArgNames   []string
	DefContext *Context
	AutoReturn bool
}

func NewNull() *Value                { return &Value{Kind: TypeNull} }
func NewBool(b bool) *Value          { return &Value{Kind: TypeBool, Bool: b} }
func NewInt(i int64) *Value          { return &Value{Kind: TypeInt, Int: i} }
func NewFloat(f float64) *Value      { return &Value{Kind: TypeFloat, Float: f} }
func NewString(s string) *Value      { return &Value{Kind: TypeString, Str: s} }
func NewList(items []*Value) *Value  { return &Value{Kind: TypeList, List: items} }
func NewType(tag TypeTag) *Value     { return &Value{Kind: TypeType, TypeOf: tag} }
func NewSystemFunction(n string) *Value {
	return &Value{Kind: TypeSystemFunction, SysFn: n}
}
func NewFunction(fn *Function) *Value { return &Value{Kind: TypeFunction, Func: fn} }

// SetPos re-stamps the value's span (used on every VarAccess copy).
func (v *Value) SetPos(start, end *Position) *Value {
	v.PosStart, v.PosEnd = start, end
	return v
}

// SetContext re-binds the value's owning context.
func (v *Value) SetContext(ctx *Context) *Value {
	v.Context = ctx
	return v
}

// Copy returns an independent value carrying the same payload, span, and
// context. VarAccess always copies so that mutating the copy (e.g.
// appending to a List via `+`) never mutates the stored variable.
func (v *Value) Copy() *Value {
	cp := *v
	if v.Kind == TypeList {
		cp.List = append([]*Value(nil), v.List...)
	}
	return &cp
}

func (v *Value) isNumeric() bool { return v.Kind == TypeInt || v.Kind == TypeFloat }

func (v *Value) asFloat() float64 {
	switch v.Kind {
	case TypeInt:
		return float64(v.Int)
	case TypeFloat:
		return v.Float
	default:
		return 0
	}
}

// String renders the value the way `print` displays it.
func (v *Value) String() string {
	switch v.Kind {
	case TypeNull:
		return "Null"
	case TypeBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case TypeInt:
		return strconv.FormatInt(v.Int, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case TypeString:
		return v.Str
	case TypeList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TypeFunction:
		name := v.Func.Name
		if name == "" {
			name = "<anonymous>"
		}
		return fmt.Sprintf("<function %s>", name)
	case TypeSystemFunction:
		return fmt.Sprintf("<system function %s>", v.SysFn)
	case TypeType:
		return v.TypeOf.String()
	default:
		return ""
	}
}

// IsTrue implements spec §4.3 truthiness: Null is false, Bool is its own
// value, numerics are non-zero, strings are non-empty, lists are always
// considered defined (length is not consulted).
func (v *Value) IsTrue() bool {
	switch v.Kind {
	case TypeNull:
		return false
	case TypeBool:
		return v.Bool
	case TypeInt:
		return v.Int != 0
	case TypeFloat:
		return v.Float != 0
	case TypeString:
		return v.Str != ""
	case TypeList:
		return true
	default:
		return true
	}
}

// matchesDeclaredType implements the widening rule from spec §3: Any
// accepts anything, Number accepts Int or Float, everything else must
// match exactly.
func (v *Value) matchesDeclaredType(declared TypeTag) bool {
	if declared == TypeAny {
		return true
	}
	if declared == TypeNumber {
		return v.Kind == TypeInt || v.Kind == TypeFloat
	}
	return v.Kind == declared
}

func illegalOperation(v *Value) *Error {
	return NewRuntimeError(v.PosStart, v.PosEnd, "Illegal operation", v.Context)
}

// Add implements `+` for Number/Int/Float (numeric addition), String
// (concatenation), and List (append, returning a new list).
func (v *Value) Add(other *Value) (*Value, *Error) {
	switch {
	case v.isNumeric() && other.isNumeric():
		return numericBinOp(v, other, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b }), nil
	case v.Kind == TypeString && other.Kind == TypeString:
		return NewString(v.Str + other.Str).SetContext(v.Context), nil
	case v.Kind == TypeList:
		result := v.Copy()
		result.List = append(result.List, other)
		return result, nil
	default:
		return nil, illegalOperation(v)
	}
}

// Subtract implements `-` for numerics, String (remove first occurrence
// of other), and List (remove element at index `other`).
func (v *Value) Subtract(other *Value) (*Value, *Error) {
	switch {
	case v.isNumeric() && other.isNumeric():
		return numericBinOp(v, other, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }), nil
	case v.Kind == TypeString && other.Kind == TypeString:
		return NewString(strings.Replace(v.Str, other.Str, "", 1)).SetContext(v.Context), nil
	case v.Kind == TypeList && other.Kind == TypeInt:
		idx := int(other.Int)
		if idx < 0 || idx >= len(v.List) {
			return nil, NewRuntimeError(v.PosStart, other.PosEnd, "Index out of bounds", v.Context)
		}
		result := v.Copy()
		result.List = append(result.List[:idx], result.List[idx+1:]...)
		return result, nil
	default:
		return nil, illegalOperation(v)
	}
}

// Multiply implements `*` for numerics, String*Int (repetition), and
// List*List (concatenation).
func (v *Value) Multiply(other *Value) (*Value, *Error) {
	switch {
	case v.isNumeric() && other.isNumeric():
		return numericBinOp(v, other, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }), nil
	case v.Kind == TypeString && other.Kind == TypeInt:
		if other.Int < 0 {
			return nil, illegalOperation(v)
		}
		return NewString(strings.Repeat(v.Str, int(other.Int))).SetContext(v.Context), nil
	case v.Kind == TypeList && other.Kind == TypeList:
		result := v.Copy()
		result.List = append(result.List, other.List...)
		return result, nil
	default:
		return nil, illegalOperation(v)
	}
}

// Divide implements numeric `/` (division by zero is a RuntimeError) and
// List/Int element access.
func (v *Value) Divide(other *Value) (*Value, *Error) {
	switch {
	case v.isNumeric() && other.isNumeric():
		if other.asFloat() == 0 {
			return nil, NewRuntimeError(other.PosStart, other.PosEnd, "Cannot divide by zero", v.Context)
		}
		if v.Kind == TypeInt && other.Kind == TypeInt {
			return NewInt(v.Int / other.Int).SetContext(v.Context), nil
		}
		return NewFloat(v.asFloat() / other.asFloat()).SetContext(v.Context), nil
	case v.Kind == TypeList && other.Kind == TypeInt:
		idx := int(other.Int)
		if idx < 0 || idx >= len(v.List) {
			return nil, NewRuntimeError(v.PosStart, other.PosEnd, "Index out of bounds", v.Context)
		}
		return v.List[idx], nil
	default:
		return nil, illegalOperation(v)
	}
}

// Power implements numeric `^`. Per spec, `^` is right-associative at the
// grammar level; the evaluator need not care, it just computes a^b.
func (v *Value) Power(other *Value) (*Value, *Error) {
	if !v.isNumeric() || !other.isNumeric() {
		return nil, illegalOperation(v)
	}
	if v.Kind == TypeInt && other.Kind == TypeInt && other.Int >= 0 {
		return NewInt(intPow(v.Int, other.Int)).SetContext(v.Context), nil
	}
	return NewFloat(math.Pow(v.asFloat(), other.asFloat())).SetContext(v.Context), nil
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

// numericBinOp applies intOp when both operands are Int, else promotes
// both to float64 and applies floatOp.
func numericBinOp(a, b *Value, intOp func(int64, int64) int64, floatOp func(float64, float64) float64) *Value {
	if a.Kind == TypeInt && b.Kind == TypeInt {
		return NewInt(intOp(a.Int, b.Int)).SetContext(a.Context)
	}
	return NewFloat(floatOp(a.asFloat(), b.asFloat())).SetContext(a.Context)
}

// CompareEq, CompareNe, ... implement the six comparison operators.
// Equality compares numerics across Int/Float and Null, Bool and String
// values within the same kind; any other pair is unequal. The four
// ordering operators accept numerics only.
func (v *Value) CompareEq(other *Value) (*Value, *Error) {
	return NewBool(v.equalValueTo(other)).SetContext(v.Context), nil
}

func (v *Value) CompareNe(other *Value) (*Value, *Error) {
	return NewBool(!v.equalValueTo(other)).SetContext(v.Context), nil
}

func (v *Value) equalValueTo(other *Value) bool {
	if v.isNumeric() && other.isNumeric() {
		return v.asFloat() == other.asFloat()
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case TypeNull:
		return true
	case TypeBool:
		return v.Bool == other.Bool
	case TypeString:
		return v.Str == other.Str
	default:
		return false
	}
}

func (v *Value) CompareLt(other *Value) (*Value, *Error) {
	if !v.isNumeric() || !other.isNumeric() {
		return nil, illegalOperation(v)
	}
	return NewBool(v.asFloat() < other.asFloat()).SetContext(v.Context), nil
}

func (v *Value) CompareGt(other *Value) (*Value, *Error) {
	if !v.isNumeric() || !other.isNumeric() {
		return nil, illegalOperation(v)
	}
	return NewBool(v.asFloat() > other.asFloat()).SetContext(v.Context), nil
}

func (v *Value) CompareLte(other *Value) (*Value, *Error) {
	if !v.isNumeric() || !other.isNumeric() {
		return nil, illegalOperation(v)
	}
	return NewBool(v.asFloat() <= other.asFloat()).SetContext(v.Context), nil
}

func (v *Value) CompareGte(other *Value) (*Value, *Error) {
	if !v.isNumeric() || !other.isNumeric() {
		return nil, illegalOperation(v)
	}
	return NewBool(v.asFloat() >= other.asFloat()).SetContext(v.Context), nil
}

// And, Or, Not implement the logical operators over truthiness.
func (v *Value) And(other *Value) (*Value, *Error) {
	return NewBool(v.IsTrue() && other.IsTrue()).SetContext(v.Context), nil
}

func (v *Value) Or(other *Value) (*Value, *Error) {
	return NewBool(v.IsTrue() || other.IsTrue()).SetContext(v.Context), nil
}

func (v *Value) Not() (*Value, *Error) {
	return NewBool(!v.IsTrue()).SetContext(v.Context), nil
}

// Negate implements unary `-` for numerics.
func (v *Value) Negate() (*Value, *Error) {
	if !v.isNumeric() {
		return nil, illegalOperation(v)
	}
	if v.Kind == TypeInt {
		return NewInt(-v.Int).SetContext(v.Context), nil
	}
	return NewFloat(-v.Float).SetContext(v.Context), nil
}


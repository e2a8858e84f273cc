package machine

import (
	"fmt"
	"stg/ast"
	"strings"
)

type Class int

const (
	AddrClass = iota
	IntClass
)

// Value is what lives on the argument stack, in closure free-variable
// slots, and in local environments: a heap address or a primitive int.
type Value interface {
	Class() Class
	Inspect() string
}

// Addr is an opaque heap index. Addresses are append-allocated and
// never reused.
type Addr int

func (a Addr) Class() Class    { return AddrClass }
func (a Addr) Inspect() string { return fmt.Sprintf("#%d", int(a)) }

// PrimInt is a primitive 64-bit signed integer.
type PrimInt int64

func (i PrimInt) Class() Class    { return IntClass }
func (i PrimInt) Inspect() string { return fmt.Sprintf("%d", int64(i)) }

// Closure is a lambda form together with one value per free-variable
// slot, captured at allocation time.
type Closure struct {
	Lambda ast.LambdaForm
	Free   []Value
}

func (c *Closure) Inspect() string {
	return "<" + c.Lambda.String() + " | " + inspectValues(c.Free) + ">"
}

func inspectValues(vals []Value) string {
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = v.Inspect()
	}
	return "[" + strings.Join(strs, ", ") + "]"
}

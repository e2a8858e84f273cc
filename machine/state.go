package machine

import (
	"fmt"
	"stg/ast"
)

// Code is the machine's current instruction.
type Code interface {
	codeNode()
	Inspect() string
}

// EvalCode evaluates an expression under a local environment.
type EvalCode struct {
	Expr   ast.Expr
	Locals Locals
}

func (c *EvalCode) codeNode()       {}
func (c *EvalCode) Inspect() string { return "Eval " + c.Expr.String() }

// EnterCode enters the closure at Addr.
type EnterCode struct {
	Addr Addr
}

func (c *EnterCode) codeNode()       {}
func (c *EnterCode) Inspect() string { return "Enter " + c.Addr.Inspect() }

// ReturnIntCode hands a primitive int to the top continuation.
type ReturnIntCode struct {
	Value PrimInt
}

func (c *ReturnIntCode) codeNode()       {}
func (c *ReturnIntCode) Inspect() string { return "ReturnInt " + c.Value.Inspect() }

// ReturnConCode hands a saturated constructor to the top continuation.
type ReturnConCode struct {
	Con    string
	Values []Value
}

func (c *ReturnConCode) codeNode()       {}
func (c *ReturnConCode) Inspect() string { return "ReturnCon " + c.Con + " " + inspectValues(c.Values) }

// UninitCode is the pre-startup sentinel.
type UninitCode struct{}

func (c *UninitCode) codeNode()       {}
func (c *UninitCode) Inspect() string { return "Uninitialized" }

// State is the whole machine: the current instruction, the three
// stacks, the heap, the global environment, a step counter, and the
// step log.
type State struct {
	Code    Code
	Args    []Value
	Rets    []Continuation
	Upds    []UpdateFrame
	Heap    *Heap
	Globals Globals

	Steps int
	Log   []string

	// Quiet disables step-log accumulation; it has no effect on the
	// transitions themselves.
	Quiet bool
}

// NewState is a machine that has not been loaded yet; Compile is the
// usual way to obtain a runnable one.
func NewState() *State {
	return &State{
		Code:    &UninitCode{},
		Heap:    NewHeap(),
		Globals: Globals{},
	}
}

func (st *State) logf(format string, args ...interface{}) {
	if st.Quiet {
		return
	}
	st.Log = append(st.Log, fmt.Sprintf(format, args...))
}

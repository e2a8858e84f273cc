package machine

import "stg/ast"

// Continuation is a case's pending alternatives plus the local
// environment to evaluate the chosen alternative in.
type Continuation struct {
	Alts   []ast.Alt
	Locals Locals
}

// UpdateFrame snapshots the argument and return stacks at the moment an
// updatable closure is entered, together with the address to overwrite
// when its evaluation finishes.
type UpdateFrame struct {
	Args   []Value
	Rets   []Continuation
	Target Addr
}

// The three machine stacks are slices with the top at the end.

func (st *State) pushArg(v Value) {
	st.Args = append(st.Args, v)
}

// pushArgs pushes vals so that vals[0] ends up on top.
func (st *State) pushArgs(vals []Value) {
	for i := len(vals) - 1; i >= 0; i-- {
		st.pushArg(vals[i])
	}
}

// takeArgs pops n values, top first.
func (st *State) takeArgs(n int) []Value {
	if len(st.Args) < n {
		panic(errorf(ErrNotEnoughArgsOnStack, "need %d arguments, have %d", n, len(st.Args)))
	}

	vals := make([]Value, n)
	for i := 0; i < n; i++ {
		vals[i] = st.Args[len(st.Args)-1-i]
	}
	st.Args = st.Args[:len(st.Args)-n]

	return vals
}

func (st *State) pushRet(c Continuation) {
	st.Rets = append(st.Rets, c)
}

func (st *State) popRet() (Continuation, bool) {
	if len(st.Rets) == 0 {
		return Continuation{}, false
	}

	cont := st.Rets[len(st.Rets)-1]
	st.Rets = st.Rets[:len(st.Rets)-1]
	return cont, true
}

func (st *State) pushUpd(f UpdateFrame) {
	st.Upds = append(st.Upds, f)
}

func (st *State) popUpd() (UpdateFrame, bool) {
	if len(st.Upds) == 0 {
		return UpdateFrame{}, false
	}

	frame := st.Upds[len(st.Upds)-1]
	st.Upds = st.Upds[:len(st.Upds)-1]
	return frame, true
}

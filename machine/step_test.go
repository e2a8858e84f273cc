package machine

import (
	"reflect"
	"stg/ast"
	"testing"
)

func stepOnce(t *testing.T, st *State) Status {
	t.Helper()

	status, err := Step(st)
	if err != nil {
		t.Fatalf("step error: %v", err)
	}

	return status
}

func TestEvalIntProducesReturnInt(t *testing.T) {
	st := NewState()
	st.Code = &EvalCode{Expr: &ast.IntExpr{Value: 7}, Locals: Locals{}}

	stepOnce(t, st)

	code, ok := st.Code.(*ReturnIntCode)
	if !ok || code.Value != PrimInt(7) {
		t.Fatalf("expected ReturnInt 7, got %s", st.Code.Inspect())
	}
}

func TestEvalCasePushesContinuation(t *testing.T) {
	alts := []ast.Alt{&ast.IntAlt{Value: 1, Body: &ast.IntExpr{Value: 1}}}
	locals := Locals{"x": PrimInt(9)}

	st := NewState()
	st.Code = &EvalCode{
		Expr:   &ast.CaseExpr{Scrutinee: &ast.IntExpr{Value: 1}, Alts: alts},
		Locals: locals,
	}

	stepOnce(t, st)

	if len(st.Rets) != 1 {
		t.Fatalf("expected 1 continuation, got %d", len(st.Rets))
	}
	cont := st.Rets[0]
	if !reflect.DeepEqual(cont.Alts, alts) {
		t.Errorf("continuation carries the wrong alternatives")
	}
	if !reflect.DeepEqual(cont.Locals, locals) {
		t.Errorf("continuation carries the wrong environment")
	}
	if _, ok := st.Code.(*EvalCode); !ok {
		t.Errorf("expected to evaluate the scrutinee next, got %s", st.Code.Inspect())
	}
}

func TestEvalAppPushesArgsFirstOnTop(t *testing.T) {
	st := NewState()
	target := st.Heap.Alloc(&Closure{Lambda: ast.LambdaForm{
		Bound: []string{"a", "b"},
		Body:  &ast.IntExpr{Value: 0},
	}})
	st.Globals["f"] = target

	st.Code = &EvalCode{
		Expr: &ast.AppExpr{Target: "f", Atoms: []ast.Atom{
			&ast.IntAtom{Value: 1},
			&ast.IntAtom{Value: 2},
		}},
		Locals: Locals{},
	}

	stepOnce(t, st)

	// top of the stack is the end of the slice; the first atom ends up on top
	want := []Value{PrimInt(2), PrimInt(1)}
	if !reflect.DeepEqual(st.Args, want) {
		t.Errorf("expected args %s, got %s", inspectValues(want), inspectValues(st.Args))
	}
	code, ok := st.Code.(*EnterCode)
	if !ok || code.Addr != target {
		t.Errorf("expected Enter %s, got %s", target.Inspect(), st.Code.Inspect())
	}
}

// Entering an updatable closure pushes exactly one frame holding the
// closure's address, and empties the argument and return stacks.
func TestEnterUpdatablePushesFrame(t *testing.T) {
	st := NewState()
	addr := st.Heap.Alloc(&Closure{Lambda: ast.LambdaForm{
		Updatable: true,
		Body:      &ast.IntExpr{Value: 7},
	}})

	args := []Value{PrimInt(1), PrimInt(2)}
	rets := []Continuation{{Locals: Locals{}}}
	st.Args = args
	st.Rets = rets
	st.Code = &EnterCode{Addr: addr}

	stepOnce(t, st)

	if len(st.Upds) != 1 {
		t.Fatalf("expected 1 update frame, got %d", len(st.Upds))
	}
	frame := st.Upds[0]
	if frame.Target != addr {
		t.Errorf("frame targets %s, want %s", frame.Target.Inspect(), addr.Inspect())
	}
	if !reflect.DeepEqual(frame.Args, args) || len(frame.Rets) != len(rets) {
		t.Errorf("frame does not snapshot the stacks")
	}
	if len(st.Args) != 0 || len(st.Rets) != 0 {
		t.Errorf("expected emptied stacks, got %d args, %d conts", len(st.Args), len(st.Rets))
	}
}

func TestEnterNonUpdatableBindsArgs(t *testing.T) {
	st := NewState()
	addr := st.Heap.Alloc(&Closure{
		Lambda: ast.LambdaForm{
			Free:  []string{"c"},
			Bound: []string{"a", "b"},
			Body:  &ast.AppExpr{Target: "a", Atoms: nil},
		},
		Free: []Value{PrimInt(30)},
	})

	// top of the stack is 10
	st.Args = []Value{PrimInt(20), PrimInt(10)}
	st.Code = &EnterCode{Addr: addr}

	stepOnce(t, st)

	code, ok := st.Code.(*EvalCode)
	if !ok {
		t.Fatalf("expected Eval, got %s", st.Code.Inspect())
	}
	want := Locals{"a": PrimInt(10), "b": PrimInt(20), "c": PrimInt(30)}
	if !reflect.DeepEqual(code.Locals, want) {
		t.Errorf("expected locals %v, got %v", want, code.Locals)
	}
	if len(st.Args) != 0 {
		t.Errorf("expected all arguments consumed, %d left", len(st.Args))
	}
}

// Entering with too few arguments, at the step level: the step rewrites
// the pending frame's target into a curried closure and restores the
// frame's stacks with the current arguments on top.
func TestPartialApplicationStep(t *testing.T) {
	st := NewState()
	thunk := st.Heap.Alloc(&Closure{Lambda: ast.LambdaForm{
		Updatable: true,
		Body:      &ast.IntExpr{Value: 0},
	}})
	fn := st.Heap.Alloc(&Closure{Lambda: ast.LambdaForm{
		Bound: []string{"x", "y"},
		Body:  &ast.AppExpr{Target: "x", Atoms: nil},
	}})

	frameArgs := []Value{PrimInt(9)}
	st.Upds = []UpdateFrame{{Args: frameArgs, Target: thunk}}
	st.Args = []Value{PrimInt(1)}
	st.Code = &EnterCode{Addr: fn}

	stepOnce(t, st)

	curried := st.Heap.Get(thunk)
	if !reflect.DeepEqual(curried.Lambda.Free, []string{"x"}) {
		t.Errorf("curried free vars: expected [x], got %v", curried.Lambda.Free)
	}
	if !reflect.DeepEqual(curried.Lambda.Bound, []string{"y"}) {
		t.Errorf("curried bound vars: expected [y], got %v", curried.Lambda.Bound)
	}
	if !reflect.DeepEqual(curried.Free, []Value{PrimInt(1)}) {
		t.Errorf("curried free values: expected [1], got %s", inspectValues(curried.Free))
	}

	// frame args under the current ones, current on top
	want := []Value{PrimInt(9), PrimInt(1)}
	if !reflect.DeepEqual(st.Args, want) {
		t.Errorf("expected args %s, got %s", inspectValues(want), inspectValues(st.Args))
	}
	if len(st.Upds) != 0 {
		t.Errorf("expected the frame consumed, %d left", len(st.Upds))
	}

	// the same Enter re-runs against the combined stack
	code, ok := st.Code.(*EnterCode)
	if !ok || code.Addr != fn {
		t.Errorf("expected Enter %s unchanged, got %s", fn.Inspect(), st.Code.Inspect())
	}
}

// A thunk's value overwrites its heap cell in standard form.
func TestReturnConUpdatesThunk(t *testing.T) {
	st := NewState()
	thunk := st.Heap.Alloc(&Closure{Lambda: ast.LambdaForm{
		Updatable: true,
		Body:      &ast.ConExpr{Name: "Pair"},
	}})

	st.Upds = []UpdateFrame{{Target: thunk}}
	st.Code = &ReturnConCode{Con: "Pair", Values: []Value{PrimInt(1), PrimInt(2)}}

	stepOnce(t, st)

	updated := st.Heap.Get(thunk)
	if updated.Lambda.Updatable {
		t.Errorf("standard constructor closure must not be updatable")
	}
	if !reflect.DeepEqual(updated.Free, []Value{PrimInt(1), PrimInt(2)}) {
		t.Errorf("expected captured fields [1, 2], got %s", inspectValues(updated.Free))
	}
	body, ok := updated.Lambda.Body.(*ast.ConExpr)
	if !ok || body.Name != "Pair" {
		t.Errorf("expected a Pair constructor body, got %v", updated.Lambda.Body)
	}
	if len(updated.Lambda.Free) != len(updated.Free) {
		t.Errorf("%d free vars for %d captured values", len(updated.Lambda.Free), len(updated.Free))
	}

	// the constructor return re-runs against the restored stacks
	if _, ok := st.Code.(*ReturnConCode); !ok {
		t.Errorf("expected ReturnCon unchanged, got %s", st.Code.Inspect())
	}
}

func TestReturnIntHaltsWithoutContinuation(t *testing.T) {
	st := NewState()
	st.Code = &ReturnIntCode{Value: PrimInt(5)}

	if status := stepOnce(t, st); status != Halted {
		t.Fatalf("expected Halted, got %v", status)
	}
}

func TestHeapLookupFailed(t *testing.T) {
	st := NewState()
	st.Code = &EnterCode{Addr: Addr(99)}

	_, err := Step(st)
	if ReasonOf(err) != ErrHeapLookupFailed {
		t.Fatalf("expected HeapLookupFailed, got %v", err)
	}
}

func TestTakeArgsUnderflow(t *testing.T) {
	st := NewState()
	st.Args = []Value{PrimInt(1)}

	defer func() {
		r := recover()
		mErr, ok := r.(*Error)
		if !ok || mErr.Reason != ErrNotEnoughArgsOnStack {
			t.Fatalf("expected NotEnoughArgsOnStack panic, got %v", r)
		}
	}()

	st.takeArgs(2)
}

package machine

import (
	"fmt"
	"stg/ast"
)

// Status is the result of one machine transition.
type Status int

const (
	Stepped Status = iota
	Halted
)

// step performs one transition of the machine. It panics with *Error on
// a runtime violation; the public driver boundary recovers.
func (st *State) step() Status {
	st.Steps++
	st.logf("%d: %s", st.Steps, st.Code.Inspect())

	switch code := st.Code.(type) {
	case *EvalCode:
		return st.stepEval(code)
	case *EnterCode:
		return st.stepEnter(code)
	case *ReturnIntCode:
		return st.stepReturnInt(code)
	case *ReturnConCode:
		return st.stepReturnCon(code)
	case *UninitCode:
		panic(errorf(ErrUnknown, "stepping an uninitialized machine"))
	}

	panic(errorf(ErrUnknown, "unhandled code %v of type %T", st.Code, st.Code))
}

func (st *State) stepEval(code *EvalCode) Status {
	switch expr := code.Expr.(type) {
	case *ast.AppExpr:
		return st.evalApp(expr, code.Locals)
	case *ast.LetExpr:
		return st.evalLet(expr, code.Locals)
	case *ast.CaseExpr:
		st.pushRet(Continuation{Alts: expr.Alts, Locals: code.Locals})
		st.Code = &EvalCode{Expr: expr.Scrutinee, Locals: code.Locals}
		return Stepped
	case *ast.ConExpr:
		vals := lookupAtoms(code.Locals, st.Globals, expr.Atoms)
		st.Code = &ReturnConCode{Con: expr.Name, Values: vals}
		return Stepped
	case *ast.IntExpr:
		st.Code = &ReturnIntCode{Value: PrimInt(expr.Value)}
		return Stepped
	}

	panic(errorf(ErrUnknown, "unhandled expression %v of type %T", code.Expr, code.Expr))
}

func (st *State) evalApp(expr *ast.AppExpr, locals Locals) Status {
	if IsIntrinsic(expr.Target) {
		vals := lookupAtoms(locals, st.Globals, expr.Atoms)
		st.Code = &ReturnIntCode{Value: applyIntrinsic(expr.Target, vals)}
		return Stepped
	}

	fnVal := lookupVar(locals, st.Globals, expr.Target)

	// Applying a primitive int is a stuck term; the int itself is the
	// machine's answer.
	fnAddr, ok := fnVal.(Addr)
	if !ok {
		st.Code = &ReturnIntCode{Value: fnVal.(PrimInt)}
		return Halted
	}

	vals := lookupAtoms(locals, st.Globals, expr.Atoms)
	st.pushArgs(vals)
	st.Code = &EnterCode{Addr: fnAddr}
	return Stepped
}

// evalLet allocates the bindings as closures and evaluates the body
// under the extended environment. Allocation is two-pass so that
// letrec bindings can see one another: addresses are reserved first,
// free-variable vectors filled in second.
func (st *State) evalLet(expr *ast.LetExpr, locals Locals) Status {
	names := make([]string, len(expr.Bindings))
	addrs := make([]Value, len(expr.Bindings))
	closures := make([]*Closure, len(expr.Bindings))

	for i, binding := range expr.Bindings {
		closures[i] = &Closure{Lambda: binding.Lambda}
		names[i] = binding.Name
		addrs[i] = st.Heap.Alloc(closures[i])
	}

	ext := locals.extend(names, addrs)

	// For letrec the bindings resolve their free variables against the
	// extended environment; for plain let, only against the outer one.
	resolveEnv := locals
	if expr.IsRec {
		resolveEnv = ext
	}

	for i, binding := range expr.Bindings {
		free := make([]Value, len(binding.Lambda.Free))
		for j, name := range binding.Lambda.Free {
			free[j] = lookupVar(resolveEnv, st.Globals, name)
		}
		closures[i].Free = free
	}

	st.Code = &EvalCode{Expr: expr.Body, Locals: ext}
	return Stepped
}

func (st *State) stepEnter(code *EnterCode) Status {
	closure := st.Heap.Get(code.Addr)

	if closure.Lambda.Updatable {
		return st.enterUpdatable(code.Addr, closure)
	}
	return st.enterNonUpdatable(code.Addr, closure)
}

// enterUpdatable starts evaluating a thunk: the argument and return
// stacks are snapshotted into an update frame so that the thunk's
// address can be overwritten with its value when a Return finds the
// stacks empty again.
func (st *State) enterUpdatable(addr Addr, closure *Closure) Status {
	if len(closure.Lambda.Bound) != 0 {
		panic(errorf(ErrEnterUpdatableWithArgs, "updatable closure at %v has bound variables %v", addr.Inspect(), closure.Lambda.Bound))
	}

	locals := Locals{}.extend(closure.Lambda.Free, closure.Free)

	st.pushUpd(UpdateFrame{Args: st.Args, Rets: st.Rets, Target: addr})
	st.Args = nil
	st.Rets = nil

	st.Code = &EvalCode{Expr: closure.Lambda.Body, Locals: locals}
	return Stepped
}

func (st *State) enterNonUpdatable(addr Addr, closure *Closure) Status {
	k := len(closure.Lambda.Bound)

	if len(st.Args) >= k {
		popped := st.takeArgs(k)
		locals := Locals{}.extend(closure.Lambda.Free, closure.Free).extend(closure.Lambda.Bound, popped)
		st.Code = &EvalCode{Expr: closure.Lambda.Body, Locals: locals}
		return Stepped
	}

	return st.rewritePartialApplication(addr, closure)
}

// rewritePartialApplication handles entering a function with too few
// arguments on the stack. The pending update frame's target is
// overwritten with a curried form of the closure: the supplied
// arguments move from bound variables to free values. The frame's
// stacks are then restored (current arguments staying on top) and the
// same Enter re-runs against the combined argument stack.
func (st *State) rewritePartialApplication(addr Addr, closure *Closure) Status {
	frame, ok := st.popUpd()
	if !ok {
		panic(errorf(ErrUpdateStackEmpty, "partial application at %v with no update frame", addr.Inspect()))
	}

	m := len(st.Args)
	supplied := make([]Value, m)
	for i := 0; i < m; i++ {
		supplied[i] = st.Args[len(st.Args)-1-i]
	}

	curried := &Closure{
		Lambda: ast.LambdaForm{
			Free:      concatVars(closure.Lambda.Free, closure.Lambda.Bound[:m]),
			Updatable: false,
			Bound:     closure.Lambda.Bound[m:],
			Body:      closure.Lambda.Body,
		},
		Free: concatValues(closure.Free, supplied),
	}
	st.Heap.Update(frame.Target, curried)
	st.logf("%d: rewrote %s as partial application %s", st.Steps, frame.Target.Inspect(), curried.Inspect())

	st.Args = append(frame.Args, st.Args...)
	st.Rets = frame.Rets
	return Stepped
}

func (st *State) stepReturnInt(code *ReturnIntCode) Status {
	// A thunk has evaluated to a bare int: overwrite it for sharing and
	// resume the stacks the update frame snapshotted.
	if len(st.Args) == 0 && len(st.Rets) == 0 && len(st.Upds) > 0 {
		frame, _ := st.popUpd()
		st.Args = frame.Args
		st.Rets = frame.Rets
		st.Heap.Update(frame.Target, intClosure(code.Value))
		st.logf("%d: updated %s with value %s", st.Steps, frame.Target.Inspect(), code.Value.Inspect())
		return Stepped
	}

	cont, ok := st.popRet()
	if !ok {
		return Halted
	}

	var matched *ast.IntAlt
	for _, alt := range cont.Alts {
		switch a := alt.(type) {
		case *ast.IntAlt:
			if a.Value == int64(code.Value) {
				if matched != nil {
					panic(errorf(ErrCaseAltsOverlappingPatterns, "duplicate alternative for %d", a.Value))
				}
				matched = a
			}
		case *ast.VarAlt:
			// handled by varDefault below
		case *ast.ConAlt:
			panic(errorf(ErrExpectedCaseAltInt, "returning int %s into constructor alternative %s", code.Value.Inspect(), a.Con))
		}
	}

	if matched != nil {
		st.Code = &EvalCode{Expr: matched.Body, Locals: cont.Locals}
		return Stepped
	}

	if def := varDefault(cont.Alts); def != nil {
		locals := cont.Locals.extend([]string{def.Name}, []Value{code.Value})
		st.Code = &EvalCode{Expr: def.Body, Locals: locals}
		return Stepped
	}

	panic(errorf(ErrNoMatchingAltPatternInt, "no alternative matches %s", code.Value.Inspect()))
}

func (st *State) stepReturnCon(code *ReturnConCode) Status {
	// A thunk has evaluated to a constructor: overwrite it with a
	// standard constructor closure and resume the snapshotted stacks.
	if len(st.Args) == 0 && len(st.Rets) == 0 && len(st.Upds) > 0 {
		frame, _ := st.popUpd()
		st.Args = frame.Args
		st.Rets = frame.Rets
		st.Heap.Update(frame.Target, conClosure(code.Con, code.Values))
		st.logf("%d: updated %s with constructor %s", st.Steps, frame.Target.Inspect(), code.Con)
		return Stepped
	}

	cont, ok := st.popRet()
	if !ok {
		return Halted
	}

	var matched *ast.ConAlt
	for _, alt := range cont.Alts {
		switch a := alt.(type) {
		case *ast.ConAlt:
			if a.Con == code.Con {
				if matched != nil {
					panic(errorf(ErrCaseAltsOverlappingPatterns, "duplicate alternative for %s", a.Con))
				}
				matched = a
			}
		case *ast.VarAlt:
			// handled by varDefault below
		case *ast.IntAlt:
			panic(errorf(ErrExpectedCaseAltConstructor, "returning constructor %s into int alternative %d", code.Con, a.Value))
		}
	}

	if matched != nil {
		if len(matched.Vars) != len(code.Values) {
			panic(errorf(ErrNoMatchingAltPatternConstructor, "%s has %d fields, pattern binds %d", code.Con, len(code.Values), len(matched.Vars)))
		}
		locals := cont.Locals.extend(matched.Vars, code.Values)
		st.Code = &EvalCode{Expr: matched.Body, Locals: locals}
		return Stepped
	}

	if def := varDefault(cont.Alts); def != nil {
		// The default variable needs a value for the whole constructor,
		// so one is allocated in standard form.
		addr := st.Heap.Alloc(conClosure(code.Con, code.Values))
		locals := cont.Locals.extend([]string{def.Name}, []Value{addr})
		st.Code = &EvalCode{Expr: def.Body, Locals: locals}
		return Stepped
	}

	panic(errorf(ErrNoMatchingAltPatternConstructor, "no alternative matches %s", code.Con))
}

// varDefault finds the continuation's default alternative, if any.
func varDefault(alts []ast.Alt) *ast.VarAlt {
	var def *ast.VarAlt
	for _, alt := range alts {
		if a, ok := alt.(*ast.VarAlt); ok {
			if def != nil {
				panic(errorf(ErrCaseAltsHasMoreThanOneVariable, "defaults %q and %q", def.Name, a.Name))
			}
			def = a
		}
	}
	return def
}

// conClosure builds a standard constructor closure: a non-updatable
// lambda whose body rebuilds the constructor from synthetic free
// variables holding the evaluated fields.
func conClosure(con string, vals []Value) *Closure {
	names := make([]string, len(vals))
	atoms := make([]ast.Atom, len(vals))
	for i := range vals {
		names[i] = fmt.Sprintf("v%d", i+1)
		atoms[i] = &ast.VarAtom{Name: names[i]}
	}

	return &Closure{
		Lambda: ast.LambdaForm{
			Free:      names,
			Updatable: false,
			Body:      &ast.ConExpr{Name: con, Atoms: atoms},
		},
		Free: vals,
	}
}

// intClosure is the standard form of an evaluated primitive int.
func intClosure(n PrimInt) *Closure {
	return &Closure{
		Lambda: ast.LambdaForm{
			Updatable: false,
			Body:      &ast.IntExpr{Value: int64(n)},
		},
	}
}

func concatVars(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func concatValues(a, b []Value) []Value {
	out := make([]Value, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

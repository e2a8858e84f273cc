package machine

import "stg/ast"

// Compile loads a program into an initial machine state: one closure
// per top-level binding, a global environment naming them, and
// `Enter main` as the first instruction.
//
// Top-level bindings may reference each other cyclically, so loading is
// two-pass: every binding gets its address first, then each closure's
// free-variable vector is resolved against the complete global
// environment.
func Compile(program *ast.Program) (st *State, err error) {
	defer func() {
		if r := recover(); r != nil {
			mErr, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			st = nil
			err = mErr
		}
	}()

	heap := NewHeap()
	globals := make(Globals, len(program.Bindings))

	closures := make([]*Closure, len(program.Bindings))
	for i, binding := range program.Bindings {
		closures[i] = &Closure{Lambda: binding.Lambda}
		globals[binding.Name] = heap.Alloc(closures[i])
	}

	// Top-level free variables can only resolve against globals.
	empty := Locals{}
	for i, binding := range program.Bindings {
		free := make([]Value, len(binding.Lambda.Free))
		for j, name := range binding.Lambda.Free {
			free[j] = lookupVar(empty, globals, name)
		}
		closures[i].Free = free
	}

	mainAddr, ok := globals["main"]
	if !ok {
		return nil, errorf(ErrUnableToFindMain, "program has no binding named main")
	}

	return &State{
		Code:    &EnterCode{Addr: mainAddr},
		Heap:    heap,
		Globals: globals,
	}, nil
}

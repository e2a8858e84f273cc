package machine

import "io"

// recoverStep converts an internal *Error panic into a returned error.
func recoverStep(status *Status, err *error) {
	if r := recover(); r != nil {
		mErr, ok := r.(*Error)
		if !ok {
			panic(r)
		}
		*status = Halted
		*err = mErr
	}
}

// Step performs a single transition. The state is mutated in place; on
// error it is left as of the failing step, with the log intact.
func Step(st *State) (status Status, err error) {
	defer recoverStep(&status, &err)

	return st.step(), nil
}

// Run steps the machine until it halts. The terminal instruction is the
// produced value.
func Run(st *State) error {
	for {
		status, err := Step(st)
		if err != nil {
			return err
		}
		if status == Halted {
			return nil
		}
	}
}

// Trace runs the machine to halt, rendering every intermediate state
// (the initial one included) to w.
func Trace(st *State, w io.Writer) error {
	for {
		if err := PrintState(w, st); err != nil {
			return err
		}

		status, err := Step(st)
		if err != nil {
			return err
		}
		if status == Halted {
			return PrintState(w, st)
		}
	}
}

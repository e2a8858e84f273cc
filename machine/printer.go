package machine

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// PrintState renders one machine state in the trace format:
// Steps, Code, Args, Return, Update, Heap, Env.
func PrintState(w io.Writer, st *State) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Steps:  %d\n", st.Steps)
	fmt.Fprintf(&b, "Code:   %s\n", st.Code.Inspect())
	fmt.Fprintf(&b, "Args:   %s\n", inspectValues(st.Args))

	rets := make([]string, len(st.Rets))
	for i, cont := range st.Rets {
		alts := make([]string, len(cont.Alts))
		for j, alt := range cont.Alts {
			alts[j] = alt.String()
		}
		rets[i] = "{" + strings.Join(alts, "; ") + "}"
	}
	fmt.Fprintf(&b, "Return: [%s]\n", strings.Join(rets, ", "))

	upds := make([]string, len(st.Upds))
	for i, frame := range st.Upds {
		upds[i] = fmt.Sprintf("(%s, %d conts, %s)", inspectValues(frame.Args), len(frame.Rets), frame.Target.Inspect())
	}
	fmt.Fprintf(&b, "Update: [%s]\n", strings.Join(upds, ", "))

	fmt.Fprintf(&b, "Heap:\n")
	for i := 0; i < st.Heap.Size(); i++ {
		addr := Addr(i)
		fmt.Fprintf(&b, "  %s -> %s\n", addr.Inspect(), st.Heap.Get(addr).Inspect())
	}

	fmt.Fprintf(&b, "Env:\n")
	names := make([]string, 0, len(st.Globals))
	for name := range st.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %s -> %s\n", name, st.Globals[name].Inspect())
	}

	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

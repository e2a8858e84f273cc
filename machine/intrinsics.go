package machine

// Intrinsics are saturated binary operations on primitive ints.
// Arithmetic is 64-bit signed. The parser's infix sugar targets the
// names below; adding an intrinsic is a matter of table extension.
var intrinsics = map[string]func(a, b int64) int64{
	"plus#":  func(a, b int64) int64 { return a + b },
	"minus#": func(a, b int64) int64 { return a - b },
	"times#": func(a, b int64) int64 { return a * b },
	"div#":   func(a, b int64) int64 { return a / b },
}

func IsIntrinsic(name string) bool {
	_, ok := intrinsics[name]
	return ok
}

// applyIntrinsic applies an intrinsic to its already-resolved argument
// values. Every value must be a primitive int, so `plus# {x, y}` works
// when x and y are bound to ints (by a case alternative or as function
// arguments); a let-bound name holds a heap address and is rejected.
func applyIntrinsic(name string, vals []Value) PrimInt {
	fn := intrinsics[name]

	if len(vals) != 2 {
		panic(errorf(ErrIntrinsicBadArgument, "%s takes 2 arguments, got %d", name, len(vals)))
	}

	ints := make([]int64, 2)
	for i, val := range vals {
		n, ok := val.(PrimInt)
		if !ok {
			panic(errorf(ErrIntrinsicBadArgument, "argument %d of %s is %s, want a primitive int", i+1, name, val.Inspect()))
		}
		ints[i] = int64(n)
	}

	if name == "div#" && ints[1] == 0 {
		panic(errorf(ErrIntrinsicBadArgument, "div# by zero"))
	}

	return PrimInt(fn(ints[0], ints[1]))
}

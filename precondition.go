package markovcache

import "fmt"

// assertf enforces a public-API precondition (caller bug). Per the
// error handling design these are fatal and unconditional, unlike
// assertInvariant's build-tag-gated internal checks: SET of an
// oversized/zero-size item, SET of an already-registered key, and GET
// of an unregistered key all panic here rather than returning an error.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/trident-lang/trident/internal/trident/ast"
)

// Label deterministically derives the TIR label for one monomorphized
// instance of a function, from the (function_name, [integer_size_args])
// tuple SPEC_FULL.md §7 names. Two instances with the same tuple always
// derive the same label; two different tuples never collide, since the
// argument count and each argument's decimal width are encoded
// positionally.
func Label(inst ast.Instance) string {
	if len(inst.IntArgs) == 0 {
		return inst.FuncName
	}
	parts := make([]string, len(inst.IntArgs))
	for i, n := range inst.IntArgs {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return fmt.Sprintf("%s$%s", inst.FuncName, strings.Join(parts, "_"))
}

// instanceKey produces a map key unambiguous across distinct instances.
// It returns Label(inst); Build keys its result by Label directly and
// does not call it.
func instanceKey(inst ast.Instance) string {
	return Label(inst)
}

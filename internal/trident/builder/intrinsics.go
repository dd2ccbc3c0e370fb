package builder

import "github.com/trident-lang/trident/internal/trident/tir"

// intrinsicSpec describes how one frozen intrinsic name lowers to a TIR
// op: which Kind it produces and how many stack arguments it takes.
// buildIntrinsicCall emits the op with no Width/N/Addr-style payload;
// those fields stay zero.
type intrinsicSpec struct {
	kind tir.Kind
	// argc is the intrinsic's argument count; -1 means the count is
	// intrinsic-specific. buildIntrinsicCall does not consult it: it
	// evaluates and pops every argument the call site supplies.
	argc int
}

// intrinsics is the frozen 40-entry builtin table (SPEC_FULL.md §7).
// Every Trident program may call these directly; user functions cannot
// redeclare these names. "log2" is the user-facing spelling of
// tir.KLog2, whose Kind.String() is "log_2_floor" to match the
// teacher's own U32Table mnemonic.
var intrinsics = map[string]intrinsicSpec{
	"pub_read":          {tir.KPubRead, 0},
	"pub_write":         {tir.KPubWrite, 1},
	"hint":              {tir.KHint, 0},
	"ram_read":          {tir.KRamRead, -1},
	"ram_write":         {tir.KRamWrite, -1},
	"ram_read_block":    {tir.KRamReadBlock, -1},
	"ram_write_block":   {tir.KRamWriteBlock, -1},
	"hash_digest":       {tir.KHashDigest, -1},
	"emit_event":        {tir.KEmitEvent, -1},
	"seal_event":        {tir.KSealEvent, -1},
	"storage_read":      {tir.KStorageRead, -1},
	"storage_write":     {tir.KStorageWrite, -1},
	"sponge_init":       {tir.KSpongeInit, 0},
	"sponge_absorb":     {tir.KSpongeAbsorb, 10},
	"sponge_squeeze":    {tir.KSpongeSqueeze, 0},
	"sponge_absorb_mem": {tir.KSpongeAbsorbMem, -1},
	"merkle_step":       {tir.KMerkleStep, -1},
	"merkle_step_mem":   {tir.KMerkleStepMem, -1},
	"xx_add":            {tir.KXXAdd, 6},
	"xx_mul":            {tir.KXXMul, 6},
	"x_invert":          {tir.KExtFieldInv, 3},
	"xb_mul":            {tir.KXBMul, 4},
	"xx_dot_step":       {tir.KXXDotStep, -1},
	"xb_dot_step":       {tir.KXBDotStep, -1},
	"add":               {tir.KAdd, 2},
	"sub":               {tir.KSub, 2},
	"mul":               {tir.KMul, 2},
	"neg":               {tir.KNeg, 1},
	"inv":               {tir.KInv, 1},
	"eq":                {tir.KEq, 2},
	"lt":                {tir.KLt, 2},
	"and":               {tir.KAnd, 2},
	"or":                {tir.KOr, 2},
	"xor":               {tir.KXor, 2},
	"div_mod":           {tir.KDivMod, 2},
	"split":             {tir.KSplit, 1},
	"pow":               {tir.KPow, 2},
	"log2":              {tir.KLog2, 1},
	"pop_count":         {tir.KPopCount, 1},
	"assert":            {tir.KAssert, 1},
}

// IsIntrinsic reports whether name is one of the frozen builtins.
func IsIntrinsic(name string) bool {
	_, ok := intrinsics[name]
	return ok
}

// Package target describes the provable-computation VMs Trident compiles
// for: their word semantics, stack window, hash parameters, and the
// per-op/per-mnemonic cost schedule the cost model reduces against.
package target

import "fmt"

// Family is the coarse architectural shape of a target VM.
type Family int

const (
	Stack Family = iota
	Register
	Tree
	Circuit
)

func (f Family) String() string {
	switch f {
	case Stack:
		return "stack"
	case Register:
		return "register"
	case Tree:
		return "tree"
	case Circuit:
		return "circuit"
	default:
		return fmt.Sprintf("unknown-family(%d)", int(f))
	}
}

// TableID names a row-accumulating table in the cost model. The
// vocabulary mirrors a multi-table proving system: each table is a
// distinct column group whose height, after padding to a power of two,
// contributes to the total proving cost.
type TableID int

const (
	ProcessorTable TableID = iota
	OpStackTable
	RAMTable
	JumpStackTable
	HashTable
	U32Table
	ProgramTable
)

var allTableIDs = [...]TableID{
	ProcessorTable, OpStackTable, RAMTable, JumpStackTable,
	HashTable, U32Table, ProgramTable,
}

func (t TableID) String() string {
	switch t {
	case ProcessorTable:
		return "Processor"
	case OpStackTable:
		return "OpStack"
	case RAMTable:
		return "RAM"
	case JumpStackTable:
		return "JumpStack"
	case HashTable:
		return "Hash"
	case U32Table:
		return "U32"
	case ProgramTable:
		return "Program"
	default:
		return fmt.Sprintf("unknown-table(%d)", int(t))
	}
}

// AllTableIDs returns every table the cost model tracks, in a fixed,
// deterministic order.
func AllTableIDs() []TableID {
	out := make([]TableID, len(allTableIDs))
	copy(out, allTableIDs[:])
	return out
}

// Contribution is a per-table row delta a single TIR op or assembly
// mnemonic contributes to the trace.
type Contribution map[TableID]int

// CostDescriptor maps a cost key — a TIR op kind name or, for the two
// stack backends, an assembly mnemonic — to its row contribution.
type CostDescriptor map[string]Contribution

// Config is an immutable description of one target VM. Values are
// constructed once per compilation and shared by reference; nothing in
// this package mutates a Config after Build() returns it.
type Config struct {
	id             string
	family         Family
	baseFieldBits  int
	extFieldDegree int
	digestWidth    int
	hashRate       int
	stackWindow    int // 0 means "no physical window" (register/tree families)
	maxTier        int
	hashRowCost    int
	costDescriptor CostDescriptor
}

func (c *Config) ID() string                     { return c.id }
func (c *Config) Family() Family                 { return c.family }
func (c *Config) BaseFieldBits() int             { return c.baseFieldBits }
func (c *Config) ExtFieldDegree() int            { return c.extFieldDegree }
func (c *Config) DigestWidth() int               { return c.digestWidth }
func (c *Config) HashRate() int                  { return c.hashRate }
func (c *Config) StackWindow() int               { return c.stackWindow }
func (c *Config) MaxTier() int                   { return c.maxTier }
func (c *Config) HashRowCost() int               { return c.hashRowCost }
func (c *Config) HasRAM() bool                   { return c.family != Circuit }
func (c *Config) CostDescriptor() CostDescriptor { return c.costDescriptor }

// Contribution looks up the row contribution of a cost key, returning
// the zero Contribution (no rows anywhere) if the key is unknown to this
// target's descriptor.
func (c *Config) Contribution(key string) Contribution {
	if contrib, ok := c.costDescriptor[key]; ok {
		return contrib
	}
	return Contribution{}
}

// Builder constructs a Config with the teacher's familiar fluent-setter,
// Validate-at-the-end shape (internal/vybium-starks-vm/utils/config.go),
// used only during construction — the Config it produces is immutable.
type Builder struct {
	cfg Config
}

// NewBuilder starts a Builder for the given target identifier and family.
func NewBuilder(id string, family Family) *Builder {
	return &Builder{cfg: Config{id: id, family: family, costDescriptor: CostDescriptor{}}}
}

func (b *Builder) WithBaseFieldBits(bits int) *Builder {
	b.cfg.baseFieldBits = bits
	return b
}

func (b *Builder) WithExtFieldDegree(degree int) *Builder {
	b.cfg.extFieldDegree = degree
	return b
}

func (b *Builder) WithDigestWidth(width int) *Builder {
	b.cfg.digestWidth = width
	return b
}

func (b *Builder) WithHashRate(rate int) *Builder {
	b.cfg.hashRate = rate
	return b
}

func (b *Builder) WithStackWindow(window int) *Builder {
	b.cfg.stackWindow = window
	return b
}

func (b *Builder) WithMaxTier(tier int) *Builder {
	b.cfg.maxTier = tier
	return b
}

func (b *Builder) WithHashRowCost(cost int) *Builder {
	b.cfg.hashRowCost = cost
	return b
}

func (b *Builder) WithContribution(key string, contrib Contribution) *Builder {
	b.cfg.costDescriptor[key] = contrib
	return b
}

// Validate checks the accumulated fields for internal consistency.
func (b *Builder) Validate() error {
	if b.cfg.id == "" {
		return fmt.Errorf("target: id must not be empty")
	}
	if b.cfg.maxTier < 0 || b.cfg.maxTier > 3 {
		return fmt.Errorf("target %s: max tier %d out of range [0,3]", b.cfg.id, b.cfg.maxTier)
	}
	if b.cfg.family == Circuit && b.cfg.stackWindow != 0 {
		return fmt.Errorf("target %s: circuit family cannot declare a physical stack window", b.cfg.id)
	}
	if b.cfg.family == Stack && b.cfg.stackWindow <= 0 {
		return fmt.Errorf("target %s: stack family requires a positive stack window", b.cfg.id)
	}
	if b.cfg.digestWidth < 0 || b.cfg.hashRate < 0 {
		return fmt.Errorf("target %s: digest width and hash rate must be non-negative", b.cfg.id)
	}
	return nil
}

// Build validates and returns the finished, immutable Config.
func (b *Builder) Build() (Config, error) {
	if err := b.Validate(); err != nil {
		return Config{}, err
	}
	descriptor := make(CostDescriptor, len(b.cfg.costDescriptor))
	for k, v := range b.cfg.costDescriptor {
		contrib := make(Contribution, len(v))
		for t, n := range v {
			contrib[t] = n
		}
		descriptor[k] = contrib
	}
	out := b.cfg
	out.costDescriptor = descriptor
	return out, nil
}

// IsPow2 reports whether n is a power of two, lifted from
// internal/vybium-starks-vm/utils/common.go's IsPowerOfTwo.
func IsPow2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// PadPow2 returns the smallest power of two >= n, lifted from
// internal/vybium-starks-vm/utils/common.go's NextPowerOfTwo.
func PadPow2(n int) int {
	if n <= 0 {
		return 1
	}
	if IsPow2(n) {
		return n
	}
	power := 1
	for power < n {
		power <<= 1
	}
	return power
}

// Log2OfPow2 computes log2(n) for n a power of two, or -1 otherwise —
// lifted from internal/vybium-starks-vm/utils/common.go's Log2.
func Log2OfPow2(n int) int {
	if !IsPow2(n) {
		return -1
	}
	result := 0
	for n > 1 {
		n >>= 1
		result++
	}
	return result
}

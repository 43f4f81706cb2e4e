package npu

import "fmt"

// ---------------------------------------------------------------------------
// Device address map
// ---------------------------------------------------------------------------

// Base addresses of the device's MMIO regions. The simulator resolves
// register offsets relative to RegBase; the pattern and archetypal regions
// are reserved for the host-shared memory window.
const (
	RegBase        = 0x50000000
	PatternBase    = 0x50001000
	ArchetypalBase = 0x50100000
)

// ---------------------------------------------------------------------------
// Register offsets
// ---------------------------------------------------------------------------

// Reg is a 32-bit register offset relative to RegBase.
type Reg uint32

const (
	RegCmd           Reg = 0x00 // command register
	RegStatus        Reg = 0x04 // status flags
	RegPatternID     Reg = 0x08 // current pattern ID (1-253)
	RegPatternCount  Reg = 0x0C // total patterns loaded
	RegQueryAddr     Reg = 0x10 // window address of query string (64-bit, low half)
	RegQueryAddrHi   Reg = 0x14 // high half of RegQueryAddr
	RegQueryLen      Reg = 0x18 // length of query string
	RegResultAddr    Reg = 0x1C // window address for results (64-bit, low half)
	RegResultAddrHi  Reg = 0x20 // high half of RegResultAddr
	RegResultCount   Reg = 0x24 // number of matching patterns
	RegDomainMode    Reg = 0x28 // domain transformation mode
	RegSequenceID    Reg = 0x2C // pattern sequence ID (1-36)
	RegCategory      Reg = 0x30 // category filter
	RegErrorCode     Reg = 0x34 // last error code
	RegPerfQueries   Reg = 0x38 // total queries processed
	RegPerfTransform Reg = 0x3C // total transformations
	RegPerfAvgTimeUS Reg = 0x40 // average query time (microseconds)
)

// regCount is the number of 32-bit slots in the register file.
const regCount = int(RegPerfAvgTimeUS)/4 + 1

// ---------------------------------------------------------------------------
// Command codes
// ---------------------------------------------------------------------------

// Command is a device command code written to RegCmd.
type Command uint32

const (
	CmdReset        Command = 0x00 // reset device state
	CmdLoadPatterns Command = 0x01 // load pattern corpus into memory
	CmdQueryByID    Command = 0x02 // query pattern by ID
	CmdQueryByName  Command = 0x03 // query pattern by name
	CmdQueryByText  Command = 0x04 // full-text search
	CmdTransform    Command = 0x05 // apply domain transformation
	CmdGetPreceding Command = 0x06 // get preceding patterns
	CmdGetFollowing Command = 0x07 // get following patterns
	CmdGetSequence  Command = 0x08 // get pattern sequence
	CmdGetCategory  Command = 0x09 // get patterns by category
	CmdSelfTest     Command = 0x0A // run self-diagnostics
)

var commandNames = map[Command]string{
	CmdReset:        "RESET",
	CmdLoadPatterns: "LOAD_PATTERNS",
	CmdQueryByID:    "QUERY_BY_ID",
	CmdQueryByName:  "QUERY_BY_NAME",
	CmdQueryByText:  "QUERY_BY_TEXT",
	CmdTransform:    "TRANSFORM",
	CmdGetPreceding: "GET_PRECEDING",
	CmdGetFollowing: "GET_FOLLOWING",
	CmdGetSequence:  "GET_SEQUENCE",
	CmdGetCategory:  "GET_CATEGORY",
	CmdSelfTest:     "SELF_TEST",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", uint32(c))
}

// ---------------------------------------------------------------------------
// Status bits
// ---------------------------------------------------------------------------

// Status is the bitmask held in RegStatus. Bits are set and cleared
// individually, so several may be observable at once.
type Status uint32

const (
	StatusIdle           Status = 0x01 // device ready for commands
	StatusBusy           Status = 0x02 // operation in progress
	StatusReady          Status = 0x04 // results ready
	StatusError          Status = 0x08 // error occurred
	StatusPatternsLoaded Status = 0x10 // pattern corpus loaded
	StatusCacheHot       Status = 0x20 // pattern cache warmed up
	StatusSelfTestOK     Status = 0x40 // self-test passed
)

var statusBitNames = []struct {
	bit  Status
	name string
}{
	{StatusIdle, "IDLE"},
	{StatusBusy, "BUSY"},
	{StatusReady, "READY"},
	{StatusError, "ERROR"},
	{StatusPatternsLoaded, "PATTERNS_LOADED"},
	{StatusCacheHot, "CACHE_HOT"},
	{StatusSelfTestOK, "SELF_TEST_OK"},
}

// String returns the pipe-joined names of the set bits, or "UNKNOWN" when
// no defined bit is set.
func (s Status) String() string {
	out := ""
	for _, b := range statusBitNames {
		if s&b.bit == 0 {
			continue
		}
		if out != "" {
			out += " | "
		}
		out += b.name
	}
	if out == "" {
		return "UNKNOWN"
	}
	return out
}

// ---------------------------------------------------------------------------
// Error codes
// ---------------------------------------------------------------------------

// ErrorCode is the device error code held in RegErrorCode. Errors surface
// exclusively through the register file; the MMIO boundary never raises
// Go errors to the caller.
type ErrorCode uint32

const (
	ErrNone            ErrorCode = 0x00 // no error
	ErrInvalidCmd      ErrorCode = 0x01 // invalid command
	ErrPatternNotFound ErrorCode = 0x02 // pattern ID not found
	ErrInvalidDomain   ErrorCode = 0x03 // invalid domain mode
	ErrQueryTimeout    ErrorCode = 0x04 // query timed out
	ErrTransformFail   ErrorCode = 0x05 // transformation failed
	ErrMemoryError     ErrorCode = 0x06 // memory access error
	ErrNotLoaded       ErrorCode = 0x07 // patterns not loaded
)

var errorNames = map[ErrorCode]string{
	ErrNone:            "NONE",
	ErrInvalidCmd:      "INVALID_CMD",
	ErrPatternNotFound: "PATTERN_NOT_FOUND",
	ErrInvalidDomain:   "INVALID_DOMAIN",
	ErrQueryTimeout:    "QUERY_TIMEOUT",
	ErrTransformFail:   "TRANSFORM_FAIL",
	ErrMemoryError:     "MEMORY_ERROR",
	ErrNotLoaded:       "NOT_LOADED",
}

func (e ErrorCode) String() string {
	if name, ok := errorNames[e]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", uint32(e))
}

// ---------------------------------------------------------------------------
// Domain modes
// ---------------------------------------------------------------------------

// Domain selects the transformation target for archetypal patterns.
type Domain uint32

const (
	DomainNone       Domain = 0
	DomainPhysical   Domain = 1
	DomainSocial     Domain = 2
	DomainConceptual Domain = 3
	DomainPsychic    Domain = 4
)

var domainNames = [...]string{
	DomainNone:       "none",
	DomainPhysical:   "physical",
	DomainSocial:     "social",
	DomainConceptual: "conceptual",
	DomainPsychic:    "psychic",
}

func (d Domain) String() string {
	if int(d) < len(domainNames) {
		return domainNames[d]
	}
	return fmt.Sprintf("unknown(%d)", uint32(d))
}

// ParseDomain maps a domain name to its mode code. Only the four
// transformation targets are recognized; "none" is not a valid target.
func ParseDomain(name string) (Domain, bool) {
	switch name {
	case "physical":
		return DomainPhysical, true
	case "social":
		return DomainSocial, true
	case "conceptual":
		return DomainConceptual, true
	case "psychic":
		return DomainPsychic, true
	}
	return DomainNone, false
}

// ---------------------------------------------------------------------------
// Category codes
// ---------------------------------------------------------------------------

// CategoryCode selects a pattern category in RegCategory.
type CategoryCode uint32

const (
	CategoryAll          CategoryCode = 0
	CategoryTowns        CategoryCode = 1
	CategoryBuildings    CategoryCode = 2
	CategoryConstruction CategoryCode = 3
)

var categoryNames = [...]string{
	CategoryAll:          "all",
	CategoryTowns:        "towns",
	CategoryBuildings:    "buildings",
	CategoryConstruction: "construction",
}

func (c CategoryCode) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("unknown(%d)", uint32(c))
}

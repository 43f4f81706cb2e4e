package npu

// ---------------------------------------------------------------------------
// RegisterFile: fixed-offset MMIO slot array
// ---------------------------------------------------------------------------

// RegisterFile holds the device's MMIO surface as a fixed array of 32-bit
// slots indexed by validated offset. Access outside the register map is a
// runtime-checked error reported through the error code register, never a
// Go error; reads of invalid offsets return 0.
type RegisterFile struct {
	slots [regCount]uint32
	trace bool
}

// NewRegisterFile creates a register file in its power-on state. When trace
// is set, every access is logged at debug level.
func NewRegisterFile(trace bool) *RegisterFile {
	rf := &RegisterFile{trace: trace}
	rf.Reset()
	return rf
}

// Reset returns every slot to its power-on default: all zero except the
// status register, which asserts IDLE.
func (rf *RegisterFile) Reset() {
	for i := range rf.slots {
		rf.slots[i] = 0
	}
	rf.slots[RegStatus/4] = uint32(StatusIdle)
}

func (rf *RegisterFile) valid(off Reg) bool {
	return off%4 == 0 && int(off/4) < regCount
}

// Write32 stores a 32-bit value at the given offset. An offset outside the
// register map sets ERR_MEMORY_ERROR and the error status bit.
func (rf *RegisterFile) Write32(off Reg, value uint32) {
	if !rf.valid(off) {
		rf.SetError(ErrMemoryError)
		return
	}
	rf.slots[off/4] = value
	if rf.trace {
		mmioLog.Debugf("WRITE REG[0x%02X] = 0x%08X", uint32(off), value)
	}
}

// Read32 loads the 32-bit value at the given offset. An offset outside the
// register map sets ERR_MEMORY_ERROR and returns 0.
func (rf *RegisterFile) Read32(off Reg) uint32 {
	if !rf.valid(off) {
		rf.SetError(ErrMemoryError)
		return 0
	}
	value := rf.slots[off/4]
	if rf.trace {
		mmioLog.Debugf("READ REG[0x%02X] = 0x%08X", uint32(off), value)
	}
	return value
}

// Write64 stores a 64-bit value as two consecutive 32-bit slots, low half
// at off, high half at off+4. The write is rejected whole when either slot
// lies outside the register map.
func (rf *RegisterFile) Write64(off Reg, value uint64) {
	if !rf.valid(off) || !rf.valid(off+4) {
		rf.SetError(ErrMemoryError)
		return
	}
	rf.Write32(off, uint32(value))
	rf.Write32(off+4, uint32(value>>32))
}

// Read64 composes the 64-bit value stored across off and off+4.
func (rf *RegisterFile) Read64(off Reg) uint64 {
	if !rf.valid(off) || !rf.valid(off+4) {
		rf.SetError(ErrMemoryError)
		return 0
	}
	low := uint64(rf.Read32(off))
	high := uint64(rf.Read32(off + 4))
	return high<<32 | low
}

// ---------------------------------------------------------------------------
// Status and error management
// ---------------------------------------------------------------------------

// Status returns the current status bitmask without trace side effects.
func (rf *RegisterFile) Status() Status {
	return Status(rf.slots[RegStatus/4])
}

// SetStatus sets the given bits, leaving all others untouched.
func (rf *RegisterFile) SetStatus(bits Status) {
	rf.slots[RegStatus/4] |= uint32(bits)
}

// ClearStatus clears the given bits, leaving all others untouched.
func (rf *RegisterFile) ClearStatus(bits Status) {
	rf.slots[RegStatus/4] &^= uint32(bits)
}

// Error returns the current error code.
func (rf *RegisterFile) Error() ErrorCode {
	return ErrorCode(rf.slots[RegErrorCode/4])
}

// SetError records an error condition: the code register plus the error
// status bit.
func (rf *RegisterFile) SetError(code ErrorCode) {
	rf.slots[RegErrorCode/4] = uint32(code)
	rf.SetStatus(StatusError)
	if rf.trace {
		mmioLog.Debugf("ERROR: %s", code)
	}
}

// ClearError resets the error code to NONE and drops the error status bit.
func (rf *RegisterFile) ClearError() {
	rf.slots[RegErrorCode/4] = uint32(ErrNone)
	rf.ClearStatus(StatusError)
}

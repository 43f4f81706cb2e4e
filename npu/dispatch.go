package npu

import "github.com/patternlang/npu253/npu/wire"

// ---------------------------------------------------------------------------
// Command dispatch
// ---------------------------------------------------------------------------

// SendCommand writes cmd into the command register and executes it,
// reporting success. Failures surface only through the error code
// register; the MMIO boundary never raises a Go error.
//
// Register-level operands: QUERY_BY_ID, GET_PRECEDING, and GET_FOLLOWING
// take the pattern id register; GET_SEQUENCE the sequence id register;
// GET_CATEGORY the category register; TRANSFORM the domain register plus
// an archetypal id string staged in the window at the query address.
// QUERY_BY_NAME and QUERY_BY_TEXT read their argument from the window the
// same way. When the result address register is non-zero, a successful
// command also writes an encoded result batch there.
func (d *Device) SendCommand(cmd Command) bool {
	d.rf.Write32(RegCmd, uint32(cmd))
	return d.execute(cmd)
}

// execute runs the dispatcher state machine. Only RESET and LOAD_PATTERNS
// are legal while Unloaded; anything else is rejected with ERR_NOT_LOADED
// before the previous error would be cleared.
func (d *Device) execute(cmd Command) bool {
	if !d.loaded && cmd != CmdReset && cmd != CmdLoadPatterns {
		d.rf.SetError(ErrNotLoaded)
		return false
	}
	d.rf.ClearError()
	log.Debugf("command %s", cmd.String())

	switch cmd {
	case CmdReset:
		return d.Reset()
	case CmdLoadPatterns:
		return d.Load()
	case CmdQueryByID:
		return d.execQueryByID()
	case CmdQueryByName:
		return d.execQueryByName()
	case CmdQueryByText:
		return d.execQueryByText()
	case CmdTransform:
		return d.execTransform()
	case CmdGetPreceding:
		return d.execNavigate(true)
	case CmdGetFollowing:
		return d.execNavigate(false)
	case CmdGetSequence:
		return d.execSequence()
	case CmdGetCategory:
		return d.execCategory()
	case CmdSelfTest:
		return d.runSelfTest()
	default:
		d.rf.SetError(ErrInvalidCmd)
		return false
	}
}

func (d *Device) execQueryByID() bool {
	id := int(d.rf.Read32(RegPatternID))
	p, ok := d.QueryByID(id)
	if !ok {
		return false
	}
	return d.writeResults([]*Pattern{p})
}

func (d *Device) execQueryByName() bool {
	name, ok := d.readQueryString()
	if !ok {
		return false
	}
	p, ok := d.QueryByName(name)
	if !ok {
		return false
	}
	return d.writeResults([]*Pattern{p})
}

func (d *Device) execQueryByText() bool {
	text, ok := d.readQueryString()
	if !ok {
		return false
	}
	results, ok := d.QueryByText(text)
	if !ok {
		return false
	}
	return d.writeResults(results)
}

func (d *Device) execTransform() bool {
	archetypalID, ok := d.readQueryString()
	if !ok {
		return false
	}
	domain := Domain(d.rf.Read32(RegDomainMode))
	text, ok := d.Transform(archetypalID, domain)
	if !ok {
		return false
	}
	return d.writeBatch(&wire.ResultBatch{Count: 1, Text: text}, ErrTransformFail)
}

func (d *Device) execNavigate(preceding bool) bool {
	id := int(d.rf.Read32(RegPatternID))
	var (
		results []*Pattern
		ok      bool
	)
	if preceding {
		results, ok = d.Preceding(id)
	} else {
		results, ok = d.Following(id)
	}
	if !ok {
		return false
	}
	return d.writeResults(results)
}

func (d *Device) execSequence() bool {
	id := int(d.rf.Read32(RegSequenceID))
	results, ok := d.SequencePatterns(id)
	if !ok {
		return false
	}
	return d.writeResults(results)
}

func (d *Device) execCategory() bool {
	code := CategoryCode(d.rf.Read32(RegCategory))
	if code == CategoryAll {
		results := d.store.All()
		d.rf.Write32(RegResultCount, uint32(len(results)))
		d.rf.SetStatus(StatusReady)
		return d.writeResults(results)
	}

	results, ok := d.CategoryPatterns(code.String())
	if !ok {
		return false
	}
	return d.writeResults(results)
}

// ---------------------------------------------------------------------------
// Window transport
// ---------------------------------------------------------------------------

// readQueryString fetches the command's string argument from the window
// at the query address and length registers.
func (d *Device) readQueryString() (string, bool) {
	addr := d.rf.Read64(RegQueryAddr)
	n := int(d.rf.Read32(RegQueryLen))
	s, err := d.window.ReadString(addr, n)
	if err != nil {
		log.Errorf("query read: %s", err.Error())
		d.rf.SetError(ErrMemoryError)
		return "", false
	}
	return s, true
}

// writeResults encodes the given records as a result batch at the result
// address. A zero result address means the host wants registers only.
func (d *Device) writeResults(patterns []*Pattern) bool {
	batch := &wire.ResultBatch{Count: uint32(len(patterns))}
	if len(patterns) > 0 {
		batch.Patterns = make([]wire.ResultEntry, len(patterns))
		for i, p := range patterns {
			batch.Patterns[i] = wire.ResultEntry{
				ID:       uint32(p.ID),
				Name:     p.Name,
				Category: p.Category,
				Tier:     uint8(p.Asterisks),
			}
		}
	}
	return d.writeBatch(batch, ErrMemoryError)
}

func (d *Device) writeBatch(batch *wire.ResultBatch, failCode ErrorCode) bool {
	addr := d.rf.Read64(RegResultAddr)
	if addr == 0 {
		return true
	}

	data, err := wire.MarshalBatch(batch)
	if err == nil {
		err = d.window.Write(addr, data)
	}
	if err != nil {
		log.Errorf("result write: %s", err.Error())
		d.rf.SetError(failCode)
		return false
	}
	return true
}

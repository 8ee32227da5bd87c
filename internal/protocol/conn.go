package protocol

import "bytes"

// mode is the two framing disciplines a connection alternates between:
// delimited text lines, and a fixed-length run of opaque payload bytes.
type mode int

const (
	modeLine mode = iota
	modeData
)

// StateMachine drives one connection's framing. It is fed arbitrary byte
// chunks via Feed — which may contain a partial line, many lines, a line
// plus part of a payload, or span several commands — and returns the
// bytes that should be written back to the client. Because it is driven
// purely by buffer contents rather than "one read = one message", it
// tolerates a split at any byte boundary and several lines in one chunk.
// In data mode, though, a chunk longer than the rest of the payload that
// is not exactly the payload plus "\r\n" (for example a payload coalesced
// with the next command) is answered with CLIENT_ERROR bad data chunk and
// its bytes are discarded.
type StateMachine struct {
	dispatcher *Dispatcher

	mode    mode
	lineBuf []byte

	pending        *Command
	bytesRemaining uint32
	dataBuf        []byte
}

// NewStateMachine returns a StateMachine starting in line mode with no
// pending command, dispatching completed commands against dispatcher.
func NewStateMachine(dispatcher *Dispatcher) *StateMachine {
	return &StateMachine{dispatcher: dispatcher, mode: modeLine}
}

// Feed processes an arbitrary chunk of bytes read from the connection and
// returns the reply bytes (each already terminated by "\r\n") produced by
// any commands that completed as a result.
func (sm *StateMachine) Feed(chunk []byte) []byte {
	var out []byte

	remaining := chunk
	for len(remaining) > 0 {
		switch sm.mode {
		case modeLine:
			consumed, reply := sm.feedLine(remaining)
			remaining = remaining[consumed:]
			out = append(out, reply...)
		case modeData:
			consumed, reply := sm.feedData(remaining)
			remaining = remaining[consumed:]
			out = append(out, reply...)
		}
	}

	return out
}

// feedLine consumes as much of chunk as forms complete "\r\n"-terminated
// lines, processing each, and buffers any trailing partial line for the
// next Feed call. It returns how many bytes of chunk it consumed.
//
// A line's own delimiter can straddle two Feed calls (a lone "\r" in one
// chunk, the matching "\n" alone in the next), so any previously buffered
// partial line is searched together with the new chunk rather than
// scanning chunk in isolation.
func (sm *StateMachine) feedLine(chunk []byte) (int, []byte) {
	var out []byte
	consumed := 0

	if len(sm.lineBuf) > 0 {
		prevLen := len(sm.lineBuf)
		combined := append(append([]byte(nil), sm.lineBuf...), chunk...)
		idx := bytes.Index(combined, []byte("\r\n"))
		if idx < 0 {
			sm.lineBuf = combined
			return len(chunk), nil
		}

		line := combined[:idx]
		sm.lineBuf = nil
		consumed = idx + 2 - prevLen
		if consumed < 0 {
			consumed = 0
		}

		reply := sm.processLine(string(line))
		out = append(out, reply...)

		if sm.mode == modeData {
			return consumed, out
		}
	}

	for consumed < len(chunk) {
		idx := bytes.Index(chunk[consumed:], []byte("\r\n"))
		if idx < 0 {
			sm.lineBuf = append(sm.lineBuf, chunk[consumed:]...)
			consumed = len(chunk)
			break
		}

		line := chunk[consumed : consumed+idx]
		consumed += idx + 2

		reply := sm.processLine(string(line))
		out = append(out, reply...)

		// A payload-carrying command switches us into data mode
		// mid-chunk; hand the rest of the chunk to feedData instead of
		// continuing to scan for lines.
		if sm.mode == modeData {
			break
		}
	}

	return consumed, out
}

// processLine handles one complete, delimiter-stripped line: parse it,
// either enter data mode (payload-carrying commands) or dispatch
// immediately. Empty lines are ignored.
func (sm *StateMachine) processLine(line string) []byte {
	if line == "" {
		return nil
	}

	cmd, err := Parse(line)
	if err != nil {
		if perr, ok := err.(*ParseError); ok {
			return terminate(ClientError(perr.Message).Text())
		}
		return terminate(ClientError(err.Error()).Text())
	}
	if cmd == nil {
		// Unknown command: silently ignore, remain in line mode.
		return nil
	}

	if IsPayloadCarrying(cmd.Name) {
		sm.pending = cmd
		sm.bytesRemaining = cmd.ExpectedBytes
		sm.dataBuf = make([]byte, 0, cmd.ExpectedBytes)
		sm.mode = modeData
		return nil
	}

	result := sm.dispatcher.Dispatch(*cmd)
	return terminate(string(result.Render()))
}

// feedData accumulates bytes into the pending command's payload.
//
// A chunk carrying exactly the remaining payload plus its trailing
// "\r\n" has that terminator stripped before counting. Otherwise, a
// chunk no longer than what's left is simply appended (the trailing
// "\r\n" always arrives as its own chunk or at the front of the next
// line-mode read, and is silently ignored there as a blank line once
// the payload completes); only a chunk that exceeds what's left, in
// neither shape, is a framing error.
func (sm *StateMachine) feedData(chunk []byte) (int, []byte) {
	n := uint32(len(chunk))

	if n == sm.bytesRemaining+2 && chunk[n-2] == '\r' && chunk[n-1] == '\n' {
		sm.dataBuf = append(sm.dataBuf, chunk[:n-2]...)
		sm.bytesRemaining = 0
		return int(n), sm.completePending()
	}

	if n > sm.bytesRemaining {
		consumed := len(chunk)
		sm.resetPending()
		return consumed, terminate(ClientError("bad data chunk").Text())
	}

	sm.dataBuf = append(sm.dataBuf, chunk...)
	sm.bytesRemaining -= n
	if sm.bytesRemaining == 0 {
		return int(n), sm.completePending()
	}

	return int(n), nil
}

func (sm *StateMachine) completePending() []byte {
	cmd := sm.pending.WithData(sm.dataBuf)
	sm.resetPending()

	result := sm.dispatcher.Dispatch(cmd)
	return terminate(string(result.Render()))
}

func (sm *StateMachine) resetPending() {
	sm.pending = nil
	sm.bytesRemaining = 0
	sm.dataBuf = nil
	sm.mode = modeLine
}

func terminate(s string) []byte {
	return []byte(s + "\r\n")
}

// Package protocol implements the memcached-ASCII-subset wire protocol:
// the command model and parser, the dispatcher, and the per-connection
// line/data framing state machine.
package protocol

// Name enumerates the supported command names. Dispatcher.Dispatch is a
// single switch with one case per constant; the compiler does not check
// that switch for exhaustiveness.
type Name string

const (
	CmdGet       Name = "get"
	CmdSet       Name = "set"
	CmdStats     Name = "stats"
	CmdIncr      Name = "incr"
	CmdDecr      Name = "decr"
	CmdDelete    Name = "delete"
	CmdAdd       Name = "add"
	CmdReplace   Name = "replace"
	CmdAppend    Name = "append"
	CmdPrepend   Name = "prepend"
	CmdFlushAll  Name = "flush_all"
)

// supportedCommands is the full set of valid command names.
var supportedCommands = map[Name]bool{
	CmdGet: true, CmdSet: true, CmdStats: true, CmdIncr: true, CmdDecr: true,
	CmdDelete: true, CmdAdd: true, CmdReplace: true, CmdAppend: true,
	CmdPrepend: true, CmdFlushAll: true,
}

// payloadCarrying is the subset of commands whose header line declares a
// byte count followed on the wire by that many payload bytes.
var payloadCarrying = map[Name]bool{
	CmdSet: true, CmdAdd: true, CmdReplace: true, CmdAppend: true, CmdPrepend: true,
}

// IsPayloadCarrying reports whether name expects a data-mode payload.
func IsPayloadCarrying(name Name) bool {
	return payloadCarrying[name]
}

// Command is an immutable parsed command: name, parameter list, and (for
// payload-carrying commands) the expected payload length and, once
// attached, the payload itself.
type Command struct {
	Name           Name
	Parameters     []string
	Data           []byte
	HasExpected    bool
	ExpectedBytes  uint32
}

// WithData returns a copy of c with its payload attached. Command is
// treated as immutable everywhere else; this is the single mutation the
// spec allows (parser creates it, this attaches payload, dispatcher
// consumes it once).
func (c Command) WithData(data []byte) Command {
	c.Data = data
	return c
}

package protocol

import "strconv"

// State is a rendered protocol token: one of the literal reply tokens
// (STORED, END, ...), a CLIENT_ERROR with a message, or the decimal
// rendering of an integer (incr/decr replies).
type State struct {
	token string
	isInt bool
	n     int64
}

func Token(tok string) State { return State{token: tok} }

func ClientError(msg string) State { return State{token: "CLIENT_ERROR " + msg} }

func IntState(n int64) State { return State{isInt: true, n: n} }

func (s State) Text() string {
	if s.isInt {
		return strconv.FormatInt(s.n, 10)
	}
	return s.token
}

var (
	Stored    = Token("STORED")
	NotStored = Token("NOT_STORED")
	End       = Token("END")
	Deleted   = Token("DELETED")
	NotFound  = Token("NOT_FOUND")
	OK        = Token("OK")
)

// Result is the outcome of dispatching a fully-assembled Command:
// {state, optional data}. Rendering concatenates data (if present)
// followed by "\r\n" and then the state's text; the connection state
// machine appends the final line terminator.
type Result struct {
	State State
	Data  []byte
}

// Render produces the reply body (without the trailing line terminator,
// which the framer appends).
func (r Result) Render() []byte {
	if r.Data == nil {
		return []byte(r.State.Text())
	}

	out := make([]byte, 0, len(r.Data)+2+len(r.State.Text()))
	out = append(out, r.Data...)
	out = append(out, '\r', '\n')
	out = append(out, r.State.Text()...)
	return out
}

package protocol

import (
	"strconv"
	"strings"
)

// ParseErrorKind distinguishes the two ways a payload-carrying command's
// header line can be malformed. The connection state machine surfaces
// both as CLIENT_ERROR, but they are kept as distinct kinds since they
// arise from different checks.
type ParseErrorKind int

const (
	// ErrKindAttribute is raised when a payload-carrying command has
	// fewer than the required 4 parameters.
	ErrKindAttribute ParseErrorKind = iota
	// ErrKindValue is raised when the declared byte count is not a
	// non-negative integer.
	ErrKindValue
)

// ParseError is returned by Parse when a line names a known command but
// is otherwise malformed.
type ParseError struct {
	Kind    ParseErrorKind
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// Parse tokenizes a single already-delimited line (no trailing CR/LF) and
// builds a Command. An unrecognized command name returns (nil, nil): the
// caller should silently ignore the line and remain in line mode.
func Parse(line string) (*Command, error) {
	tokens := strings.Split(line, " ")

	name := Name(tokens[0])
	if !supportedCommands[name] {
		return nil, nil
	}

	var params []string
	if len(tokens) > 1 {
		params = tokens[1:]
	}

	cmd := &Command{Name: name, Parameters: params}

	if IsPayloadCarrying(name) {
		if len(params) < 4 {
			return nil, &ParseError{
				Kind:    ErrKindAttribute,
				Message: "At least 4 arguments required",
			}
		}

		n, err := strconv.ParseUint(params[3], 10, 32)
		if err != nil {
			return nil, &ParseError{
				Kind:    ErrKindValue,
				Message: "Number of bytes must be an integer",
			}
		}

		cmd.HasExpected = true
		cmd.ExpectedBytes = uint32(n)
	}

	return cmd, nil
}

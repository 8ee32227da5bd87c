package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUnknownCommandReturnsNil(t *testing.T) {
	cmd, err := Parse("bogus foo bar")
	require.NoError(t, err)
	require.Nil(t, cmd)
}

func TestParseSimpleCommand(t *testing.T) {
	cmd, err := Parse("get foo")
	require.NoError(t, err)
	require.Equal(t, CmdGet, cmd.Name)
	require.Equal(t, []string{"foo"}, cmd.Parameters)
	require.False(t, cmd.HasExpected)
}

func TestParsePayloadCarryingCommand(t *testing.T) {
	cmd, err := Parse("set foobar 0 100 11")
	require.NoError(t, err)
	require.Equal(t, CmdSet, cmd.Name)
	require.True(t, cmd.HasExpected)
	require.Equal(t, uint32(11), cmd.ExpectedBytes)
}

func TestParseTooFewArgumentsIsAttributeError(t *testing.T) {
	_, err := Parse("set foo 0 0")
	require.Error(t, err)
	perr, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, ErrKindAttribute, perr.Kind)
}

func TestParseNonIntegerByteCountIsValueError(t *testing.T) {
	_, err := Parse("set foo 0 0 notanumber")
	require.Error(t, err)
	perr, ok := err.(*ParseError)
	require.True(t, ok)
	require.Equal(t, ErrKindValue, perr.Kind)
}

func TestParseNoArguments(t *testing.T) {
	cmd, err := Parse("stats")
	require.NoError(t, err)
	require.Equal(t, CmdStats, cmd.Name)
	require.Empty(t, cmd.Parameters)
}

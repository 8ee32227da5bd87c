package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/armandparker/cachesrv/internal/cache"
)

func newTestDispatcher() *Dispatcher {
	return NewDispatcher(cache.NewEngine(10, cache.NewStubClock(0)))
}

func mustParse(t *testing.T, line string) Command {
	t.Helper()
	cmd, err := Parse(line)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	return *cmd
}

func TestDispatchGetMiss(t *testing.T) {
	d := newTestDispatcher()
	result := d.Dispatch(mustParse(t, "get foo"))
	require.Equal(t, "END", result.State.Text())
	require.Nil(t, result.Data)
	require.Equal(t, "END", string(result.Render()))
}

func TestDispatchSetThenGet(t *testing.T) {
	d := newTestDispatcher()

	setCmd := mustParse(t, "set foobar 0 100 11").WithData([]byte("Hello world"))
	result := d.Dispatch(setCmd)
	require.Equal(t, "STORED", result.State.Text())

	getResult := d.Dispatch(mustParse(t, "get foobar"))
	require.Equal(t, "VALUE foobar 0 11\r\nHello world\r\nEND", string(getResult.Render()))
}

func TestDispatchIncr(t *testing.T) {
	d := newTestDispatcher()
	d.Dispatch(mustParse(t, "set foo 0 0 2").WithData([]byte("12")))

	result := d.Dispatch(mustParse(t, "incr foo 10"))
	require.Equal(t, "22", result.State.Text())

	getResult := d.Dispatch(mustParse(t, "get foo"))
	require.Equal(t, "VALUE foo 0 2\r\n22\r\nEND", string(getResult.Render()))
}

func TestDispatchIncrNonNumeric(t *testing.T) {
	d := newTestDispatcher()
	d.Dispatch(mustParse(t, "set foo 0 0 3").WithData([]byte("bar")))

	result := d.Dispatch(mustParse(t, "incr foo 1"))
	require.Equal(t, "CLIENT_ERROR cannot increment or decrement non-numeric value", result.State.Text())
}

func TestDispatchAdd(t *testing.T) {
	d := newTestDispatcher()

	r1 := d.Dispatch(mustParse(t, "add foo 0 0 3").WithData([]byte("bar")))
	require.Equal(t, "STORED", r1.State.Text())

	r2 := d.Dispatch(mustParse(t, "add foo 0 0 4").WithData([]byte("barz")))
	require.Equal(t, "NOT_STORED", r2.State.Text())
}

func TestDispatchDelete(t *testing.T) {
	d := newTestDispatcher()
	require.Equal(t, "NOT_FOUND", d.Dispatch(mustParse(t, "delete foo")).State.Text())

	d.Dispatch(mustParse(t, "set foo 0 0 1").WithData([]byte("a")))
	require.Equal(t, "DELETED", d.Dispatch(mustParse(t, "delete foo")).State.Text())
}

func TestDispatchFlushAll(t *testing.T) {
	d := newTestDispatcher()
	d.Dispatch(mustParse(t, "set foo 0 0 1").WithData([]byte("a")))

	result := d.Dispatch(mustParse(t, "flush_all"))
	require.Equal(t, "OK", result.State.Text())

	getResult := d.Dispatch(mustParse(t, "get foo"))
	require.Equal(t, "END", string(getResult.Render()))
}

func TestDispatchStatsBody(t *testing.T) {
	d := newTestDispatcher()
	d.Dispatch(mustParse(t, "set foo 0 0 1").WithData([]byte("a")))
	d.Dispatch(mustParse(t, "get foo"))
	d.Dispatch(mustParse(t, "get missing"))

	result := d.Dispatch(mustParse(t, "stats"))
	require.Equal(t,
		"STAT cmd_get 2\r\nSTAT cmd_set 1\r\nSTAT get_hits 1\r\nSTAT get_misses 1\r\n",
		string(result.Render()),
		"the stats body has no trailing state token, so rendering leaves a blank final line",
	)
}

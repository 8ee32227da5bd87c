package protocol

import (
	"fmt"
	"strconv"

	"github.com/armandparker/cachesrv/internal/cache"
)

// Dispatcher executes fully-assembled commands against a cache engine,
// translating engine outcomes into protocol Results, via an exhaustive
// switch over Name.
type Dispatcher struct {
	engine *cache.Engine
}

func NewDispatcher(engine *cache.Engine) *Dispatcher {
	return &Dispatcher{engine: engine}
}

// Dispatch executes cmd and returns its Result. cmd must be fully
// assembled: for payload-carrying commands, Data must already hold the
// collected payload.
func (d *Dispatcher) Dispatch(cmd Command) Result {
	switch cmd.Name {
	case CmdGet:
		return d.execGet(cmd)
	case CmdSet:
		return d.execSet(cmd)
	case CmdAdd:
		return d.execAdd(cmd)
	case CmdReplace:
		return d.execReplace(cmd)
	case CmdAppend:
		return d.execAppend(cmd)
	case CmdPrepend:
		return d.execPrepend(cmd)
	case CmdIncr:
		return d.execIncr(cmd)
	case CmdDecr:
		return d.execDecr(cmd)
	case CmdDelete:
		return d.execDelete(cmd)
	case CmdFlushAll:
		return d.execFlushAll()
	case CmdStats:
		return d.execStats()
	default:
		// Unreachable in practice: Parse rejects unknown names before a
		// Command ever reaches the dispatcher.
		return Result{State: ClientError(fmt.Sprintf("unknown command %q", cmd.Name))}
	}
}

func (d *Dispatcher) execGet(cmd Command) Result {
	if len(cmd.Parameters) < 1 {
		return Result{State: ClientError("get requires a key")}
	}
	key := cmd.Parameters[0]

	value, ok := d.engine.Get(key)
	if !ok {
		return Result{State: End}
	}

	header := fmt.Sprintf("VALUE %s 0 %d\r\n%s", key, len(value), value)
	return Result{State: End, Data: []byte(header)}
}

func (d *Dispatcher) execSet(cmd Command) Result {
	key := cmd.Parameters[0]
	ttl := mustTTL(cmd.Parameters[2])
	d.engine.Set(key, cmd.Data, ttl)
	return Result{State: Stored}
}

func (d *Dispatcher) execAdd(cmd Command) Result {
	key := cmd.Parameters[0]
	ttl := mustTTL(cmd.Parameters[2])
	if d.engine.Add(key, cmd.Data, ttl) {
		return Result{State: Stored}
	}
	return Result{State: NotStored}
}

func (d *Dispatcher) execReplace(cmd Command) Result {
	key := cmd.Parameters[0]
	ttl := mustTTL(cmd.Parameters[2])
	if d.engine.Replace(key, cmd.Data, ttl) {
		return Result{State: Stored}
	}
	return Result{State: NotStored}
}

func (d *Dispatcher) execAppend(cmd Command) Result {
	key := cmd.Parameters[0]
	ttl := mustTTL(cmd.Parameters[2])
	if d.engine.Append(key, cmd.Data, ttl) {
		return Result{State: Stored}
	}
	return Result{State: NotStored}
}

func (d *Dispatcher) execPrepend(cmd Command) Result {
	key := cmd.Parameters[0]
	ttl := mustTTL(cmd.Parameters[2])
	if d.engine.Prepend(key, cmd.Data, ttl) {
		return Result{State: Stored}
	}
	return Result{State: NotStored}
}

func (d *Dispatcher) execIncr(cmd Command) Result {
	return d.execDelta(cmd, d.engine.Incr)
}

func (d *Dispatcher) execDecr(cmd Command) Result {
	return d.execDelta(cmd, d.engine.Decr)
}

func (d *Dispatcher) execDelta(cmd Command, op func(string, int64) (int64, bool, error)) Result {
	if len(cmd.Parameters) < 2 {
		return Result{State: ClientError("invalid numeric delta argument")}
	}

	key := cmd.Parameters[0]
	delta, err := strconv.ParseInt(cmd.Parameters[1], 10, 64)
	if err != nil {
		return Result{State: ClientError("invalid numeric delta argument")}
	}

	newValue, ok, opErr := op(key, delta)
	if opErr != nil {
		return Result{State: ClientError(opErr.Error())}
	}
	if !ok {
		return Result{State: NotFound}
	}

	return Result{State: IntState(newValue)}
}

func (d *Dispatcher) execDelete(cmd Command) Result {
	if len(cmd.Parameters) < 1 {
		return Result{State: ClientError("delete requires a key")}
	}
	key := cmd.Parameters[0]
	if d.engine.Delete(key) {
		return Result{State: Deleted}
	}
	return Result{State: NotFound}
}

func (d *Dispatcher) execFlushAll() Result {
	d.engine.FlushAll()
	return Result{State: OK}
}

func (d *Dispatcher) execStats() Result {
	s := d.engine.Stats()
	body := fmt.Sprintf(
		"STAT cmd_get %d\r\nSTAT cmd_set %d\r\nSTAT get_hits %d\r\nSTAT get_misses %d",
		s.CmdGet(), s.Sets, s.GetHits, s.GetMisses,
	)
	return Result{State: Token(""), Data: []byte(body)}
}

// mustTTL parses a ttl parameter already validated structurally by the
// framer/parser layer (payload-carrying commands are only dispatched
// once 4+ parameters are present). A malformed ttl token falls back to 0
// ("never expire") rather than failing the whole command.
func mustTTL(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

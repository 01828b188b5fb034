package engine

// EventType tags an entry on the outbound event queue.
type EventType int

const (
	EventAttack EventType = iota
	EventDeath
	EventConversion
	EventCoinPickup
	EventSpawn
	EventVaultSpawn
	EventChat
	EventAlliance
	EventWar
)

func (t EventType) String() string {
	switch t {
	case EventAttack:
		return "attack"
	case EventDeath:
		return "death"
	case EventConversion:
		return "conversion"
	case EventCoinPickup:
		return "coin_pickup"
	case EventSpawn:
		return "spawn"
	case EventVaultSpawn:
		return "vault_spawn"
	case EventChat:
		return "chat"
	case EventAlliance:
		return "alliance"
	case EventWar:
		return "war"
	default:
		return "unknown"
	}
}

// Event is a transient record consumed once by the presentation layer.
// Not every field is meaningful for every type; Actor/Victim are NoPlayer and
// Unit is NoUnit when absent.
type Event struct {
	Type   EventType
	Pos    GridPos
	Actor  PlayerID
	Victim PlayerID
	Unit   UnitID
	Text   string
	Time   VirtualTime
}

// emit appends an event to the outbound queue, stamping the virtual time.
func (e *Engine) emit(ev Event) {
	ev.Time = e.clock.Now()
	e.events = append(e.events, ev)
}

// ConsumeEvents drains and returns every event queued since the previous
// call, in emission order. Delivery is at-most-once: a second call without an
// intervening tick returns an empty slice.
func (e *Engine) ConsumeEvents() []Event {
	if len(e.events) == 0 {
		return nil
	}
	out := e.events
	e.events = nil
	return out
}

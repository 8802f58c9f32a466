package game

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/vpatov/justpoker-sub000/poker"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type EventType string

const (
	EventStart           EventType = "START"
	EventStop            EventType = "STOP"
	EventBetAction       EventType = "BET_ACTION"
	EventSitDown         EventType = "SIT_DOWN"
	EventSitOut          EventType = "SIT_OUT"
	EventSitIn           EventType = "SIT_IN"
	EventJoin            EventType = "JOIN"
	EventLeave           EventType = "LEAVE"
	EventBuyChips        EventType = "BUY_CHIPS"
	EventSetChips        EventType = "SET_CHIPS"
	EventSetStraddle     EventType = "SET_STRADDLE"
	EventUseTimeBank     EventType = "USE_TIME_BANK"
	EventShowCard        EventType = "SHOW_CARD"
	EventBootPlayer      EventType = "BOOT_PLAYER"
	EventSetParameters   EventType = "SET_PARAMETERS"
	EventSetDisconnected EventType = "SET_DISCONNECTED"
	EventTimeout         EventType = "TIMEOUT"
)

// Payload is the type-specific part of an event.
type Payload interface {
	Type() EventType
}

type StartPayload struct{}

type StopPayload struct{}

type BetActionPayload struct {
	Action BetAction `json:"action"`
}

type SitDownPayload struct {
	Seat int `json:"seat"`
}

type SitOutPayload struct{}

type SitInPayload struct{}

type JoinPayload struct {
	Name string `json:"name"`
}

type LeavePayload struct{}

type BuyChipsPayload struct {
	Amount int64 `json:"amount"`
}

type SetChipsPayload struct {
	TargetUUID string `json:"targetUUID"`
	Amount     int64  `json:"amount"`
}

type SetStraddlePayload struct {
	Straddle bool `json:"straddle"`
}

type UseTimeBankPayload struct{}

type ShowCardPayload struct {
	Cards []poker.Card `json:"cards"`
}

type BootPlayerPayload struct {
	TargetUUID string `json:"targetUUID"`
}

type SetParametersPayload struct {
	Params GameParameters `json:"params"`
}

type SetDisconnectedPayload struct {
	Disconnected bool `json:"disconnected"`
}

// TimeoutPayload is only produced by the table's own timer.
type TimeoutPayload struct{}

func (StartPayload) Type() EventType           { return EventStart }
func (StopPayload) Type() EventType            { return EventStop }
func (BetActionPayload) Type() EventType       { return EventBetAction }
func (SitDownPayload) Type() EventType         { return EventSitDown }
func (SitOutPayload) Type() EventType          { return EventSitOut }
func (SitInPayload) Type() EventType           { return EventSitIn }
func (JoinPayload) Type() EventType            { return EventJoin }
func (LeavePayload) Type() EventType           { return EventLeave }
func (BuyChipsPayload) Type() EventType        { return EventBuyChips }
func (SetChipsPayload) Type() EventType        { return EventSetChips }
func (SetStraddlePayload) Type() EventType     { return EventSetStraddle }
func (UseTimeBankPayload) Type() EventType     { return EventUseTimeBank }
func (ShowCardPayload) Type() EventType        { return EventShowCard }
func (BootPlayerPayload) Type() EventType      { return EventBootPlayer }
func (SetParametersPayload) Type() EventType   { return EventSetParameters }
func (SetDisconnectedPayload) Type() EventType { return EventSetDisconnected }
func (TimeoutPayload) Type() EventType         { return EventTimeout }

// Event is one inbound request for a table. PlayerUUID identifies the
// originating client and is empty for table level events.
type Event struct {
	PlayerUUID string
	Payload    Payload
}

func (e Event) Type() EventType {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Type()
}

type eventEnvelope struct {
	ActionType EventType           `json:"actionType"`
	PlayerUUID string              `json:"playerUUID"`
	Payload    jsoniter.RawMessage `json:"payload"`
}

// DecodeEvent parses the JSON envelope used by the transports.
func DecodeEvent(data []byte) (Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, errors.Wrap(err, "decoding event envelope")
	}

	var payload Payload
	switch env.ActionType {
	case EventStart:
		payload = &StartPayload{}
	case EventStop:
		payload = &StopPayload{}
	case EventBetAction:
		payload = &BetActionPayload{}
	case EventSitDown:
		payload = &SitDownPayload{}
	case EventSitOut:
		payload = &SitOutPayload{}
	case EventSitIn:
		payload = &SitInPayload{}
	case EventJoin:
		payload = &JoinPayload{}
	case EventLeave:
		payload = &LeavePayload{}
	case EventBuyChips:
		payload = &BuyChipsPayload{}
	case EventSetChips:
		payload = &SetChipsPayload{}
	case EventSetStraddle:
		payload = &SetStraddlePayload{}
	case EventUseTimeBank:
		payload = &UseTimeBankPayload{}
	case EventShowCard:
		payload = &ShowCardPayload{}
	case EventBootPlayer:
		payload = &BootPlayerPayload{}
	case EventSetParameters:
		payload = &SetParametersPayload{Params: DefaultParameters()}
	case EventSetDisconnected:
		payload = &SetDisconnectedPayload{}
	default:
		return Event{}, reject(CodeMalformed, "unknown action type %q", env.ActionType)
	}

	if len(env.Payload) > 0 && string(env.Payload) != "null" {
		if err := json.Unmarshal(env.Payload, payload); err != nil {
			return Event{}, reject(CodeMalformed, "invalid %s payload: %v", env.ActionType, err)
		}
	}
	return Event{PlayerUUID: env.PlayerUUID, Payload: derefPayload(payload)}, nil
}

// derefPayload turns the decoding pointer back into the value the engine
// switches on.
func derefPayload(p Payload) Payload {
	switch v := p.(type) {
	case *StartPayload:
		return *v
	case *StopPayload:
		return *v
	case *BetActionPayload:
		return *v
	case *SitDownPayload:
		return *v
	case *SitOutPayload:
		return *v
	case *SitInPayload:
		return *v
	case *JoinPayload:
		return *v
	case *LeavePayload:
		return *v
	case *BuyChipsPayload:
		return *v
	case *SetChipsPayload:
		return *v
	case *SetStraddlePayload:
		return *v
	case *UseTimeBankPayload:
		return *v
	case *ShowCardPayload:
		return *v
	case *BootPlayerPayload:
		return *v
	case *SetParametersPayload:
		return *v
	case *SetDisconnectedPayload:
		return *v
	}
	return p
}

package nats

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/vpatov/justpoker-sub000/game"
	"github.com/vpatov/justpoker-sub000/logging"
)

var natsLogger = logging.GetZeroLogger("nats::table", nil)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const CodeRateLimited = "RATE_LIMITED"

type publisher interface {
	Publish(subject string, data []byte) error
}

// Submitter hands a decoded event to the table that owns it.
type Submitter interface {
	Submit(tableID string, ev game.Event) error
}

// Reply is sent back on the reply subject of a request.
type Reply struct {
	OK    bool   `json:"ok"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

type PresenceUpdate struct {
	PlayerUUID string `json:"playerUUID"`
	Connected  bool   `json:"connected"`
}

// NatsTable is an adapter between the NATS server and one running table.
// It forwards inbound events to the table and publishes what the table
// produces. It is registered as an observer of the table.
type NatsTable struct {
	tableID   string
	pub       publisher
	submitter Submitter
	limiter   *playerLimiter
	onEnded   func(tableID string)

	player2TableSub *natsgo.Subscription
	presenceSub     *natsgo.Subscription

	logger zerolog.Logger
}

func newNatsTable(tableID string, pub publisher, submitter Submitter, limiter *playerLimiter) *NatsTable {
	return &NatsTable{
		tableID:   tableID,
		pub:       pub,
		submitter: submitter,
		limiter:   limiter,
		logger:    natsLogger.With().Str(logging.TableIDKey, tableID).Logger(),
	}
}

func (t *NatsTable) subscribe(nc *natsgo.Conn) error {
	var err error
	t.player2TableSub, err = nc.Subscribe(PlayerSubject(t.tableID), t.player2Table)
	if err != nil {
		return errors.Wrapf(err, "subscribing to %s", PlayerSubject(t.tableID))
	}
	t.presenceSub, err = nc.Subscribe(PresenceSubject(t.tableID), t.presence)
	if err != nil {
		t.player2TableSub.Unsubscribe()
		return errors.Wrapf(err, "subscribing to %s", PresenceSubject(t.tableID))
	}
	return nil
}

func (t *NatsTable) cleanup() {
	if t.player2TableSub != nil {
		t.player2TableSub.Unsubscribe()
		t.player2TableSub = nil
	}
	if t.presenceSub != nil {
		t.presenceSub.Unsubscribe()
		t.presenceSub = nil
	}
}

// messages sent from player to table
func (t *NatsTable) player2Table(msg *natsgo.Msg) {
	t.logger.Debug().Str("subject", msg.Subject).Msg(string(msg.Data))

	ev, err := game.DecodeEvent(msg.Data)
	if err != nil {
		t.logger.Warn().Err(err).Msg("Unable to decode event")
		t.reply(msg, err)
		return
	}
	if ev.PlayerUUID != "" && !t.limiter.Allow(ev.PlayerUUID) {
		t.logger.Warn().Str(logging.PlayerIDKey, ev.PlayerUUID).Msg("Player is sending too many events")
		t.reply(msg, &rateLimitError{playerUUID: ev.PlayerUUID})
		return
	}

	err = t.submitter.Submit(t.tableID, ev)
	if err != nil {
		t.logger.Info().Err(err).
			Str(logging.PlayerIDKey, ev.PlayerUUID).
			Str(logging.ActionTypeKey, string(ev.Type())).
			Msg("Event rejected")
	}
	if ev.Type() == game.EventLeave && err == nil {
		t.limiter.Forget(ev.PlayerUUID)
	}
	t.reply(msg, err)
}

func (t *NatsTable) presence(msg *natsgo.Msg) {
	var update PresenceUpdate
	if err := json.Unmarshal(msg.Data, &update); err != nil || update.PlayerUUID == "" {
		t.logger.Warn().Str("data", string(msg.Data)).Msg("Invalid presence update")
		return
	}
	ev := game.Event{
		PlayerUUID: update.PlayerUUID,
		Payload:    game.SetDisconnectedPayload{Disconnected: !update.Connected},
	}
	if err := t.submitter.Submit(t.tableID, ev); err != nil {
		t.logger.Debug().Err(err).Str(logging.PlayerIDKey, update.PlayerUUID).Msg("Presence update ignored")
	}
}

func (t *NatsTable) reply(msg *natsgo.Msg, err error) {
	if msg.Reply == "" {
		return
	}
	data, _ := json.Marshal(toReply(err))
	if perr := t.pub.Publish(msg.Reply, data); perr != nil {
		t.logger.Error().Err(perr).Msg("Unable to publish reply")
	}
}

func toReply(err error) Reply {
	if err == nil {
		return Reply{OK: true}
	}
	r := Reply{Error: err.Error()}
	var verr *game.ValidationError
	var rerr *rateLimitError
	switch {
	case errors.As(err, &verr):
		r.Code = string(verr.Code)
		r.Error = verr.Msg
	case errors.As(err, &rerr):
		r.Code = CodeRateLimited
	}
	return r
}

type rateLimitError struct {
	playerUUID string
}

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("player %s is sending events too fast", e.playerUUID)
}

func (t *NatsTable) TableUpdated(snapshot *game.Snapshot) {
	data, err := snapshot.Marshal()
	if err != nil {
		t.logger.Error().Err(err).Msg("Unable to marshal snapshot")
		return
	}
	t.publish(StateSubject(t.tableID), data)
}

func (t *NatsTable) HandNotice(notice game.Notice) {
	data, err := json.Marshal(notice)
	if err != nil {
		t.logger.Error().Err(err).Str("kind", string(notice.Kind)).Msg("Unable to marshal notice")
		return
	}
	t.publish(HandSubject(t.tableID), data)
}

func (t *NatsTable) TableEnded(tableID string, crashed bool) {
	t.logger.Info().Bool("crashed", crashed).Msg("Table ended. Removing subscriptions")
	t.cleanup()
	if t.onEnded != nil {
		t.onEnded(tableID)
	}
}

func (t *NatsTable) publish(subject string, data []byte) {
	if err := t.pub.Publish(subject, data); err != nil {
		t.logger.Error().Err(err).Str("subject", subject).Msg("Unable to publish")
	}
}

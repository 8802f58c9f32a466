package nats

import (
	"sync"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpatov/justpoker-sub000/game"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.messages == nil {
		f.messages = make(map[string][][]byte)
	}
	f.messages[subject] = append(f.messages[subject], data)
	return nil
}

func (f *fakePublisher) count(subject string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages[subject])
}

func (f *fakePublisher) last(subject string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.messages[subject]
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

func (f *fakePublisher) reply(t *testing.T, inbox string) ControlReply {
	data := f.last(inbox)
	require.NotNil(t, data, "no reply on %s", inbox)
	var r ControlReply
	require.NoError(t, json.Unmarshal(data, &r))
	return r
}

func newTestManager(burst int) (*TableManager, *fakePublisher) {
	pub := &fakePublisher{}
	tm := &TableManager{
		pub:          pub,
		activeTables: cmap.New(),
		eventsPerSec: 0.001,
		burst:        burst,
	}
	tm.games = game.NewManager(nil, game.DefaultDelays(), tm.Observers)
	return tm, pub
}

func (tm *TableManager) table(t *testing.T, tableID string) *NatsTable {
	v, ok := tm.activeTables.Get(tableID)
	require.True(t, ok)
	return v.(*NatsTable)
}

func createTable(t *testing.T, tm *TableManager, pub *fakePublisher, tableID string) *NatsTable {
	tm.handleControl(&natsgo.Msg{
		Subject: ControlSubject,
		Reply:   "inbox.create",
		Data:    []byte(`{"type": "NewTable", "tableID": "` + tableID + `", "params": {"minBuyIn": 10, "maxBuyIn": 500}}`),
	})
	r := pub.reply(t, "inbox.create")
	require.True(t, r.OK, r.Error)
	assert.Equal(t, tableID, r.TableID)
	return tm.table(t, tableID)
}

func send(t *testing.T, table *NatsTable, pub *fakePublisher, data string) ControlReply {
	table.player2Table(&natsgo.Msg{Subject: PlayerSubject(table.tableID), Reply: "inbox.player", Data: []byte(data)})
	return pub.reply(t, "inbox.player")
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, "table.t1.player", PlayerSubject("t1"))
	assert.Equal(t, "table.t1.presence", PresenceSubject("t1"))
	assert.Equal(t, "table.t1.state", StateSubject("t1"))
	assert.Equal(t, "table.t1.hand", HandSubject("t1"))
}

func TestPlayerEventsReachTable(t *testing.T) {
	tm, pub := newTestManager(10)
	table := createTable(t, tm, pub, "t1")
	assert.Equal(t, 1, tm.TableCount())

	r := send(t, table, pub, `{"actionType": "JOIN", "playerUUID": "p1", "payload": {"name": "alice"}}`)
	assert.True(t, r.OK)
	r = send(t, table, pub, `{"actionType": "SIT_DOWN", "playerUUID": "p1", "payload": {"seat": 3}}`)
	assert.True(t, r.OK)

	require.Eventually(t, func() bool { return pub.count(StateSubject("t1")) == 2 }, time.Second, 5*time.Millisecond)
	snapshot, err := game.UnmarshalSnapshot(pub.last(StateSubject("t1")))
	require.NoError(t, err)
	require.Len(t, snapshot.Players, 1)
	assert.Equal(t, "alice", snapshot.Players[0].Name)
	assert.Equal(t, 3, snapshot.Players[0].SeatNumber)

	r = send(t, table, pub, `{"actionType": "SIT_DOWN", "playerUUID": "p1", "payload": {"seat": 4}}`)
	assert.False(t, r.OK)
	assert.Equal(t, string(game.CodeAlreadySeated), r.Code)

	require.True(t, send(t, table, pub, `{"actionType": "JOIN", "playerUUID": "p2", "payload": {"name": "bob"}}`).OK)
	r = send(t, table, pub, `{"actionType": "SIT_DOWN", "playerUUID": "p2", "payload": {"seat": 42}}`)
	assert.False(t, r.OK)
	assert.Equal(t, string(game.CodeInvalidSeat), r.Code)

	r = send(t, table, pub, `{"actionType": "SHUFFLE", "playerUUID": "p1"}`)
	assert.False(t, r.OK)
	assert.Equal(t, string(game.CodeMalformed), r.Code)

	r = send(t, table, pub, `not json`)
	assert.False(t, r.OK)
	assert.NotEmpty(t, r.Error)

	tm.handleControl(&natsgo.Msg{Subject: ControlSubject, Reply: "inbox.end", Data: []byte(`{"type": "EndTable", "tableID": "t1"}`)})
	assert.True(t, pub.reply(t, "inbox.end").OK)
	assert.Equal(t, 0, tm.TableCount())
}

func TestPlayersAreRateLimited(t *testing.T) {
	tm, pub := newTestManager(2)
	table := createTable(t, tm, pub, "t1")

	assert.True(t, send(t, table, pub, `{"actionType": "JOIN", "playerUUID": "p1", "payload": {"name": "alice"}}`).OK)
	assert.True(t, send(t, table, pub, `{"actionType": "SIT_DOWN", "playerUUID": "p1", "payload": {"seat": 1}}`).OK)
	r := send(t, table, pub, `{"actionType": "BUY_CHIPS", "playerUUID": "p1", "payload": {"amount": 100}}`)
	assert.False(t, r.OK)
	assert.Equal(t, CodeRateLimited, r.Code)

	// other players have their own budget
	assert.True(t, send(t, table, pub, `{"actionType": "JOIN", "playerUUID": "p2", "payload": {"name": "bob"}}`).OK)

	// table level events are not limited
	for i := 0; i < 3; i++ {
		assert.True(t, send(t, table, pub, `{"actionType": "STOP"}`).OK)
	}
}

func TestPresenceUpdatesDisconnect(t *testing.T) {
	tm, pub := newTestManager(10)
	table := createTable(t, tm, pub, "t1")
	require.True(t, send(t, table, pub, `{"actionType": "JOIN", "playerUUID": "p1", "payload": {"name": "alice"}}`).OK)

	table.presence(&natsgo.Msg{Subject: PresenceSubject("t1"), Data: []byte(`{"playerUUID": "p1", "connected": false}`)})
	require.Eventually(t, func() bool {
		s, err := game.UnmarshalSnapshot(pub.last(StateSubject("t1")))
		return err == nil && len(s.Players) == 1 && s.Players[0].Disconnected
	}, time.Second, 5*time.Millisecond)

	table.presence(&natsgo.Msg{Subject: PresenceSubject("t1"), Data: []byte(`{"playerUUID": "p1", "connected": true}`)})
	require.Eventually(t, func() bool {
		s, err := game.UnmarshalSnapshot(pub.last(StateSubject("t1")))
		return err == nil && len(s.Players) == 1 && !s.Players[0].Disconnected
	}, time.Second, 5*time.Millisecond)
}

func TestControlErrors(t *testing.T) {
	tm, pub := newTestManager(10)

	tm.handleControl(&natsgo.Msg{Subject: ControlSubject, Reply: "inbox.c", Data: []byte(`{"type": "Restart", "tableID": "t1"}`)})
	r := pub.reply(t, "inbox.c")
	assert.False(t, r.OK)
	assert.Equal(t, string(game.CodeMalformed), r.Code)

	tm.handleControl(&natsgo.Msg{Subject: ControlSubject, Reply: "inbox.c", Data: []byte(`{"type": "NewTable", "params": {"bigBlind": 0}}`)})
	r = pub.reply(t, "inbox.c")
	assert.False(t, r.OK)
	assert.Equal(t, string(game.CodeInvalidParameters), r.Code)

	tm.handleControl(&natsgo.Msg{Subject: ControlSubject, Reply: "inbox.c", Data: []byte(`{"type": "EndTable", "tableID": "missing"}`)})
	assert.False(t, pub.reply(t, "inbox.c").OK)
	assert.Equal(t, 0, tm.TableCount())
}

func TestNoticesArePublished(t *testing.T) {
	pub := &fakePublisher{}
	table := newNatsTable("t1", pub, nil, newPlayerLimiter(1, 1))
	table.HandNotice(game.Notice{Kind: game.NoticeHandFinished, TableID: "t1", HandNumber: 4})

	var notice game.Notice
	require.NoError(t, json.Unmarshal(pub.last(HandSubject("t1")), &notice))
	assert.Equal(t, game.NoticeHandFinished, notice.Kind)
	assert.Equal(t, 4, notice.HandNumber)
}

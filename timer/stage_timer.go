package timer

import (
	"runtime/debug"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/vpatov/justpoker-sub000/logging"
)

var stageTimerLogger = logging.GetZeroLogger("timer::stage_timer", nil)

// TimerMsg identifies one armed delay. Generation increases with every arm,
// so a receiver can drop fires that were superseded.
type TimerMsg struct {
	Stage      string
	Generation uint64
	ExpireAt   time.Time
}

type timerCommand struct {
	msg    TimerMsg
	cancel bool
}

// StageTimer keeps at most one outstanding delay for a table. Arming a new
// delay cancels the previous one.
type StageTimer struct {
	tableID string

	chCommand chan timerCommand
	chEndLoop chan bool

	callback     func(TimerMsg)
	crashHandler func()

	generation uint64
}

func NewStageTimer(tableID string, callback func(TimerMsg), crashHandler func()) *StageTimer {
	return &StageTimer{
		tableID:      tableID,
		chCommand:    make(chan timerCommand, 16),
		chEndLoop:    make(chan bool, 10),
		callback:     callback,
		crashHandler: crashHandler,
	}
}

func (s *StageTimer) Run() {
	go s.loop()
}

func (s *StageTimer) Destroy() {
	s.chEndLoop <- true
}

func (s *StageTimer) loop() {
	defer func() {
		err := recover()
		if err != nil {
			debug.PrintStack()
			stageTimerLogger.Error().
				Str(logging.TableIDKey, s.tableID).
				Msgf("Stage timer loop returning due to panic: %s\nStack Trace:\n%s", err, string(debug.Stack()))
			if s.crashHandler != nil {
				s.crashHandler()
			}
		} else {
			stageTimerLogger.Debug().Str(logging.TableIDKey, s.tableID).Msg("Stage timer loop returning")
		}
	}()

	var current TimerMsg
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	armed := false
	stop := func() {
		if armed && !t.Stop() {
			select {
			case <-t.C:
			default:
			}
		}
		armed = false
	}
	for {
		select {
		case <-s.chEndLoop:
			stop()
			return
		case cmd := <-s.chCommand:
			stop()
			if cmd.cancel {
				break
			}
			current = cmd.msg
			t.Reset(time.Until(cmd.msg.ExpireAt))
			armed = true
		case <-t.C:
			armed = false
			s.callback(current)
		}
	}
}

// Arm schedules the callback after delay and returns the message that will
// be delivered.
func (s *StageTimer) Arm(stage string, delay time.Duration) (TimerMsg, error) {
	var errMsgs []string
	if stage == "" {
		errMsgs = append(errMsgs, "invalid stage")
	}
	if delay < 0 {
		errMsgs = append(errMsgs, "negative delay")
	}
	if len(errMsgs) > 0 {
		return TimerMsg{}, errors.New(strings.Join(errMsgs, "; "))
	}
	s.generation++
	msg := TimerMsg{
		Stage:      stage,
		Generation: s.generation,
		ExpireAt:   time.Now().Add(delay),
	}
	s.chCommand <- timerCommand{msg: msg}
	return msg, nil
}

// Cancel drops the outstanding delay, if any. Fires already in flight carry
// an old generation.
func (s *StageTimer) Cancel() {
	s.generation++
	s.chCommand <- timerCommand{cancel: true}
}

// Generation is the generation of the latest arm or cancel.
func (s *StageTimer) Generation() uint64 {
	return s.generation
}

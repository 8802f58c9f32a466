package gamescript

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Script contains game script YAML content.
type Script struct {
	Table         Table          `yaml:"table"`
	StartingSeats []StartingSeat `yaml:"starting-seats"`
	Hands         []Hand         `yaml:"hands"`
}

// Table contains the table parameters in the game script.
type Table struct {
	GameType       string `yaml:"game-type"`
	SmallBlind     int64  `yaml:"small-blind"`
	BigBlind       int64  `yaml:"big-blind"`
	MaxPlayers     int    `yaml:"max-players"`
	BuyInMin       int64  `yaml:"buy-in-min"`
	BuyInMax       int64  `yaml:"buy-in-max"`
	AllowStraddle  bool   `yaml:"allow-straddle"`
	TimeToActSecs  int    `yaml:"time-to-act"`
	TimeBankCount  int    `yaml:"time-bank-count"`
	TimeBankSecs   int    `yaml:"time-bank-secs"`
	HeadsUpShowing bool   `yaml:"heads-up-show-cards"`
}

// StartingSeat contains an entry in the StartingSeats array in the game script.
type StartingSeat struct {
	Seat     int    `yaml:"seat"`
	Player   string `yaml:"player"`
	BuyIn    int64  `yaml:"buy-in"`
	Straddle bool   `yaml:"straddle"`
}

// Hand contains an entry in the hands array in the game script.
type Hand struct {
	Num     int          `yaml:"num"`
	Setup   HandSetup    `yaml:"setup"`
	Preflop BettingRound `yaml:"preflop"`
	Flop    BettingRound `yaml:"flop"`
	Turn    BettingRound `yaml:"turn"`
	River   BettingRound `yaml:"river"`
	Result  HandResult   `yaml:"result"`
}

// HandSetup contains the setup content in the hand config.
type HandSetup struct {
	ButtonSeat *int        `yaml:"button-seat"`
	SeatCards  []SeatCards `yaml:"seat-cards"`
	Board      []string    `yaml:"board"`
	SitOut     []int       `yaml:"sit-out"`
}

type SeatCards struct {
	Seat  int      `yaml:"seat"`
	Cards []string `yaml:"cards"`
}

type BettingRound struct {
	SeatActions []SeatAction             `yaml:"seat-actions"`
	Verify      BettingRoundVerification `yaml:"verify"`
}

type SeatAction struct {
	Action Action        `yaml:"action"`
	Verify *VerifyAction `yaml:"verify"`
}

type Action struct {
	Seat   int    `yaml:"seat"`
	Action string `yaml:"action"`
	Amount int64  `yaml:"amount"`
}

// Custom unmarshaller for action expression.
// 1, FOLD
// 1, BET, 20
func (a *Action) UnmarshalYAML(value *yaml.Node) error {
	var actionExpr string
	if err := value.Decode(&actionExpr); err != nil {
		return fmt.Errorf("Cannot parse action expression [%v] as string", value.Value)
	}
	tokens := strings.Split(actionExpr, ",")
	if len(tokens) != 2 && len(tokens) != 3 {
		return fmt.Errorf("Invalid action expression string [%v]. Need 2 or 3 comma-separated tokens", actionExpr)
	}

	// Parse seat number token
	trimmed := strings.Trim(tokens[0], " ")
	seatNo, err := strconv.Atoi(trimmed)
	if err != nil {
		return errors.Wrapf(err, "Cannot convert first token [%s] to seat number", trimmed)
	}

	// Parse amount token
	var amount int64
	if len(tokens) == 3 {
		trimmed := strings.Trim(tokens[2], " ")
		amount, err = strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "Cannot convert third token [%s] to amount", trimmed)
		}
	}
	a.Seat = seatNo
	a.Action = strings.ToUpper(strings.Trim(tokens[1], " "))
	a.Amount = amount
	return nil
}

// VerifyAction checks the acting seat right after its action.
type VerifyAction struct {
	Stack *int64 `yaml:"stack"`
	Bet   *int64 `yaml:"bet"`
}

type BettingRoundVerification struct {
	Board []string `yaml:"board"`
	Pots  []Pot    `yaml:"pots"`
}

type Pot struct {
	Pot        int64 `yaml:"pot"`
	SeatsInPot []int `yaml:"seats"`
}

type HandResult struct {
	Winners []HandWinner  `yaml:"winners"`
	Stacks  []ResultStack `yaml:"stacks"`
	Shown   []int         `yaml:"shown"`
	Mucked  []int         `yaml:"mucked"`
}

// HandWinner is one award of one pot, in award order.
type HandWinner struct {
	Pot     int   `yaml:"pot"`
	Seat    int   `yaml:"seat"`
	Receive int64 `yaml:"receive"`
}

type ResultStack struct {
	Seat  int   `yaml:"seat"`
	Stack int64 `yaml:"stack"`
}

var validActions = mapset.NewSet("FOLD", "CHECK", "CALL", "BET", "TIMEOUT")

func ReadGameScript(fileName string) (*Script, error) {
	bytes, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading game script file [%s]", fileName)
	}

	var script Script
	err = yaml.Unmarshal(bytes, &script)
	if err != nil {
		return nil, errors.Wrapf(err, "Error parsing YAML file [%s]", fileName)
	}

	err = script.Validate()
	if err != nil {
		return nil, errors.Wrapf(err, "Error validating script [%s]", fileName)
	}

	return &script, nil
}

func (s *Script) Validate() error {
	startingSeats := mapset.NewSet()
	playerNames := mapset.NewSet()

	// Check starting seat numbers and player names are unique.
	for _, seat := range s.StartingSeats {
		if startingSeats.Contains(seat.Seat) {
			return fmt.Errorf("Duplicate seat number [%d] in starting-seats", seat.Seat)
		}
		startingSeats.Add(seat.Seat)
		if playerNames.Contains(seat.Player) {
			return fmt.Errorf("Duplicate player name [%s] in starting-seats", seat.Player)
		}
		playerNames.Add(seat.Player)
	}

	for i, hand := range s.Hands {
		handNum := i + 1
		seatCardSeats := mapset.NewSet()
		usedCards := mapset.NewSet()

		// Check card setup has no duplicate seat number or card.
		for _, seatCards := range hand.Setup.SeatCards {
			if seatCardSeats.Contains(seatCards.Seat) {
				return fmt.Errorf("Duplicate seat number [%d] in hand %d seat-cards", seatCards.Seat, handNum)
			}
			if !startingSeats.Contains(seatCards.Seat) {
				return fmt.Errorf("Seat number [%d] is not valid for hand %d seat-cards", seatCards.Seat, handNum)
			}
			seatCardSeats.Add(seatCards.Seat)
			for _, c := range seatCards.Cards {
				if usedCards.Contains(c) {
					return fmt.Errorf("Card [%s] is used twice in hand %d", c, handNum)
				}
				usedCards.Add(c)
			}
		}
		for _, c := range hand.Setup.Board {
			if usedCards.Contains(c) {
				return fmt.Errorf("Card [%s] is used twice in hand %d", c, handNum)
			}
			usedCards.Add(c)
		}

		rounds := map[string]BettingRound{
			"preflop": hand.Preflop,
			"flop":    hand.Flop,
			"turn":    hand.Turn,
			"river":   hand.River,
		}
		for name, round := range rounds {
			for _, seatAction := range round.SeatActions {
				if !startingSeats.Contains(seatAction.Action.Seat) {
					return fmt.Errorf("Seat number [%d] is not valid for hand %d %s", seatAction.Action.Seat, handNum, name)
				}
				if !validActions.Contains(seatAction.Action.Action) {
					return fmt.Errorf("Action [%s] is not valid for hand %d %s", seatAction.Action.Action, handNum, name)
				}
			}
		}
	}

	return nil
}

func (s *Script) GetSeatByPlayerName(playerName string) int {
	for _, startingSeat := range s.StartingSeats {
		if startingSeat.Player == playerName {
			return startingSeat.Seat
		}
	}
	return -1
}

func (s *Script) GetPlayerNameBySeat(seat int) string {
	for _, startingSeat := range s.StartingSeats {
		if startingSeat.Seat == seat {
			return startingSeat.Player
		}
	}
	return ""
}

// Rounds returns the betting rounds of a hand in dealing order.
func (h *Hand) Rounds() []BettingRound {
	return []BettingRound{h.Preflop, h.Flop, h.Turn, h.River}
}

package game

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Delays holds the pause in milliseconds before each stage times out.
// Waiting for a bet action uses the player's clock instead.
type Delays struct {
	InitializeNewHand       uint32 `yaml:"initializeNewHand"`
	ShowStartOfHand         uint32 `yaml:"showStartOfHand"`
	ShowStartOfBettingRound uint32 `yaml:"showStartOfBettingRound"`
	AllInRunOutRound        uint32 `yaml:"allInRunOutRound"`
	SetCurrentPlayerToAct   uint32 `yaml:"setCurrentPlayerToAct"`
	ShowBetAction           uint32 `yaml:"showBetAction"`
	FinishBettingRound      uint32 `yaml:"finishBettingRound"`
	ShowWinner              uint32 `yaml:"showWinner"`
	PostHandCleanup         uint32 `yaml:"postHandCleanup"`
}

func DefaultDelays() Delays {
	return Delays{
		InitializeNewHand:       0,
		ShowStartOfHand:         300,
		ShowStartOfBettingRound: 500,
		AllInRunOutRound:        1500,
		SetCurrentPlayerToAct:   0,
		ShowBetAction:           250,
		FinishBettingRound:      500,
		ShowWinner:              2500,
		PostHandCleanup:         500,
	}
}

func ParseDelayConfig(delaysFile string) (Delays, error) {
	bytes, err := ioutil.ReadFile(delaysFile)
	if err != nil {
		return Delays{}, errors.Wrap(err, fmt.Sprintf("Error reading delay config file [%s]", delaysFile))
	}

	data := DefaultDelays()
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return Delays{}, errors.Wrap(err, fmt.Sprintf("Error parsing delays YAML file [%s]", delaysFile))
	}

	return data, nil
}

func ms(v uint32) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// fixedDelay returns the delay of a stage and false for stages that arm no
// fixed timer.
func (d Delays) fixedDelay(stage Stage, runOut bool) (time.Duration, bool) {
	switch stage {
	case InitializeNewHand:
		return ms(d.InitializeNewHand), true
	case ShowStartOfHand:
		return ms(d.ShowStartOfHand), true
	case ShowStartOfBettingRound:
		if runOut {
			return ms(d.AllInRunOutRound), true
		}
		return ms(d.ShowStartOfBettingRound), true
	case SetCurrentPlayerToAct:
		return ms(d.SetCurrentPlayerToAct), true
	case ShowBetAction:
		return ms(d.ShowBetAction), true
	case FinishBettingRound:
		return ms(d.FinishBettingRound), true
	case ShowWinner:
		return ms(d.ShowWinner), true
	case PostHandCleanup:
		return ms(d.PostHandCleanup), true
	}
	return 0, false
}

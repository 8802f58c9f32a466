package game

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const MaxSeats = 10

type DynamicMaxBuyIn string

const (
	FixedMaxBuyIn        DynamicMaxBuyIn = ""
	TopStackMaxBuyIn     DynamicMaxBuyIn = "TOP_STACK"
	AverageStackMaxBuyIn DynamicMaxBuyIn = "AVERAGE_STACK"
)

// BlindLevel applies from hand number FromHand onwards.
type BlindLevel struct {
	FromHand   int   `yaml:"fromHand" json:"fromHand"`
	SmallBlind int64 `yaml:"smallBlind" json:"smallBlind"`
	BigBlind   int64 `yaml:"bigBlind" json:"bigBlind"`
}

type GameParameters struct {
	GameType                       GameType        `yaml:"gameType" json:"gameType"`
	SmallBlind                     int64           `yaml:"smallBlind" json:"smallBlind"`
	BigBlind                       int64           `yaml:"bigBlind" json:"bigBlind"`
	MaxPlayers                     int             `yaml:"maxPlayers" json:"maxPlayers"`
	MinBuyIn                       int64           `yaml:"minBuyIn" json:"minBuyIn"`
	MaxBuyIn                       int64           `yaml:"maxBuyIn" json:"maxBuyIn"`
	DynamicMaxBuyIn                DynamicMaxBuyIn `yaml:"dynamicMaxBuyIn" json:"dynamicMaxBuyIn"`
	TimeToActSecs                  int             `yaml:"timeToActSecs" json:"timeToActSecs"`
	TimeBankCount                  int             `yaml:"timeBankCount" json:"timeBankCount"`
	TimeBankSecs                   int             `yaml:"timeBankSecs" json:"timeBankSecs"`
	TimeBankReplenishIntervalHands int             `yaml:"timeBankReplenishIntervalHands" json:"timeBankReplenishIntervalHands"`
	AllowStraddle                  bool            `yaml:"allowStraddle" json:"allowStraddle"`
	AllowHeadsUpShowCards          bool            `yaml:"allowHeadsUpShowCards" json:"allowHeadsUpShowCards"`
	BlindSchedule                  []BlindLevel    `yaml:"blindSchedule" json:"blindSchedule"`
}

func DefaultParameters() GameParameters {
	return GameParameters{
		GameType:                       NLHE,
		SmallBlind:                     1,
		BigBlind:                       2,
		MaxPlayers:                     9,
		MinBuyIn:                       40,
		MaxBuyIn:                       200,
		TimeToActSecs:                  30,
		TimeBankCount:                  3,
		TimeBankSecs:                   30,
		TimeBankReplenishIntervalHands: 20,
	}
}

// LoadParameters reads table parameters from a YAML file. Fields missing
// from the file keep their default values.
func LoadParameters(paramsFile string) (GameParameters, error) {
	bytes, err := ioutil.ReadFile(paramsFile)
	if err != nil {
		return GameParameters{}, errors.Wrap(err, fmt.Sprintf("Error reading table config file [%s]", paramsFile))
	}

	params := DefaultParameters()
	err = yaml.Unmarshal(bytes, &params)
	if err != nil {
		return GameParameters{}, errors.Wrap(err, fmt.Sprintf("Error parsing table config YAML file [%s]", paramsFile))
	}
	if err := params.Validate(); err != nil {
		return GameParameters{}, errors.Wrap(err, paramsFile)
	}
	return params, nil
}

func (p GameParameters) Validate() error {
	if p.GameType != NLHE && p.GameType != PLO {
		return reject(CodeInvalidParameters, "unknown game type %q", p.GameType)
	}
	if p.SmallBlind <= 0 || p.BigBlind <= 0 || p.SmallBlind > p.BigBlind {
		return reject(CodeInvalidParameters, "invalid blinds %d/%d", p.SmallBlind, p.BigBlind)
	}
	if p.MaxPlayers < 2 || p.MaxPlayers > MaxSeats {
		return reject(CodeInvalidParameters, "max players must be between 2 and %d", MaxSeats)
	}
	if p.MinBuyIn <= 0 || p.MinBuyIn > p.MaxBuyIn {
		return reject(CodeInvalidParameters, "invalid buy-in range %d-%d", p.MinBuyIn, p.MaxBuyIn)
	}
	switch p.DynamicMaxBuyIn {
	case FixedMaxBuyIn, TopStackMaxBuyIn, AverageStackMaxBuyIn:
	default:
		return reject(CodeInvalidParameters, "unknown dynamic max buy-in %q", p.DynamicMaxBuyIn)
	}
	if p.TimeToActSecs <= 0 {
		return reject(CodeInvalidParameters, "time to act must be positive")
	}
	if p.TimeBankCount < 0 || p.TimeBankSecs < 0 || p.TimeBankReplenishIntervalHands < 0 {
		return reject(CodeInvalidParameters, "time bank settings must not be negative")
	}
	lastHand := 0
	for i, level := range p.BlindSchedule {
		if level.SmallBlind <= 0 || level.BigBlind <= 0 || level.SmallBlind > level.BigBlind {
			return reject(CodeInvalidParameters, "blind level %d has invalid blinds %d/%d", i, level.SmallBlind, level.BigBlind)
		}
		if level.FromHand <= lastHand {
			return reject(CodeInvalidParameters, "blind levels must start at increasing hand numbers")
		}
		lastHand = level.FromHand
	}
	return nil
}

func (p GameParameters) TimeToAct() time.Duration {
	return time.Duration(p.TimeToActSecs) * time.Second
}

func (p GameParameters) TimeBankValue() time.Duration {
	return time.Duration(p.TimeBankSecs) * time.Second
}

// blindsForHand returns the blinds of the latest schedule level reached by
// the hand number, or the base blinds.
func (p GameParameters) blindsForHand(handNumber int) (int64, int64) {
	sb, bb := p.SmallBlind, p.BigBlind
	for _, level := range p.BlindSchedule {
		if level.FromHand <= handNumber {
			sb, bb = level.SmallBlind, level.BigBlind
		}
	}
	return sb, bb
}

// maxBuyIn applies the dynamic max buy-in to the current stacks.
func (p GameParameters) maxBuyIn(stacks []int64) int64 {
	if len(stacks) == 0 {
		return p.MaxBuyIn
	}
	var dynamic int64
	switch p.DynamicMaxBuyIn {
	case TopStackMaxBuyIn:
		for _, s := range stacks {
			if s > dynamic {
				dynamic = s
			}
		}
	case AverageStackMaxBuyIn:
		var total int64
		for _, s := range stacks {
			total += s
		}
		dynamic = total / int64(len(stacks))
	}
	if dynamic > p.MaxBuyIn {
		return dynamic
	}
	return p.MaxBuyIn
}

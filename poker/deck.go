package poker

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

var fullDeck []Card

func init() {
	fullDeck = initializeFullCards()
}

type Deck struct {
	cards []Card
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

// NewDeck returns a shuffled deck. A nil source is seeded from crypto/rand.
func NewDeck(source rand.Source) *Deck {
	if source == nil {
		source = newSeed()
	}
	deck := NewDeckNoShuffle()
	deck.shuffle(rand.New(source))
	return deck
}

func NewDeckNoShuffle() *Deck {
	deck := &Deck{cards: make([]Card, len(fullDeck))}
	copy(deck.cards, fullDeck)
	return deck
}

// Fisher-Yates.
func (deck *Deck) shuffle(randGen *rand.Rand) {
	for i := len(deck.cards) - 1; i > 0; i-- {
		j := randGen.Intn(i + 1)
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	}
}

// Draw removes n cards from the top of the deck.
func (deck *Deck) Draw(n int) ([]Card, error) {
	if n > len(deck.cards) {
		return nil, fmt.Errorf("cannot draw %d cards from a deck of %d", n, len(deck.cards))
	}
	cards := make([]Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards, nil
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

func initializeFullCards() []Card {
	cards := make([]Card, 0, 52)
	for rank := range strRanks {
		for _, suit := range suitOrder {
			cards = append(cards, Card(uint8(rank)<<4|suit))
		}
	}
	return cards
}

// DeckFromScript stacks a deck so that hole cards come out round-robin in
// the given player order, followed by the board. The rest of the deck keeps
// a random order.
func DeckFromScript(playerCards [][]Card, board []Card) (*Deck, error) {
	deck := NewDeck(nil)
	noOfPlayers := len(playerCards)
	place := func(deckIndex int, card Card) error {
		cardLoc := deck.getCardLoc(card)
		if cardLoc < 0 {
			return fmt.Errorf("card %s is used twice in the script", card)
		}
		if cardLoc < deckIndex {
			return fmt.Errorf("card %s is used twice in the script", card)
		}
		deck.cards[deckIndex], deck.cards[cardLoc] = deck.cards[cardLoc], deck.cards[deckIndex]
		return nil
	}

	deckIndex := 0
	if noOfPlayers > 0 {
		cardsPerPlayer := len(playerCards[0])
		for j := 0; j < cardsPerPlayer; j++ {
			for i := 0; i < noOfPlayers; i++ {
				if len(playerCards[i]) != cardsPerPlayer {
					return nil, fmt.Errorf("player %d has %d cards, expected %d", i, len(playerCards[i]), cardsPerPlayer)
				}
				if err := place(deckIndex, playerCards[i][j]); err != nil {
					return nil, err
				}
				deckIndex++
			}
		}
	}
	for _, card := range board {
		if err := place(deckIndex, card); err != nil {
			return nil, err
		}
		deckIndex++
	}
	return deck, nil
}

func (deck *Deck) getCardLoc(cardToLocate Card) int {
	for i, card := range deck.cards {
		if card == cardToLocate {
			return i
		}
	}
	return -1
}

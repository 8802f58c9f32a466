package game

// positionNames maps a headcount to position names, dealer first.
var positionNames = map[int][]string{
	2:  {"Dealer", "Big Blind"},
	3:  {"Dealer", "Small Blind", "Big Blind"},
	4:  {"Dealer", "Small Blind", "Big Blind", "Under the Gun"},
	5:  {"Dealer", "Small Blind", "Big Blind", "Under the Gun", "Cutoff"},
	6:  {"Dealer", "Small Blind", "Big Blind", "Under the Gun", "Hijack", "Cutoff"},
	7:  {"Dealer", "Small Blind", "Big Blind", "Under the Gun", "Middle Position", "Hijack", "Cutoff"},
	8:  {"Dealer", "Small Blind", "Big Blind", "Under the Gun", "Under the Gun+1", "Middle Position", "Hijack", "Cutoff"},
	9:  {"Dealer", "Small Blind", "Big Blind", "Under the Gun", "Under the Gun+1", "Under the Gun+2", "Middle Position", "Hijack", "Cutoff"},
	10: {"Dealer", "Small Blind", "Big Blind", "Under the Gun", "Under the Gun+1", "Under the Gun+2", "Middle Position", "Middle Position+1", "Hijack", "Cutoff"},
}

// PositionName is purely for display.
func PositionName(index int, headcount int) string {
	names, ok := positionNames[headcount]
	if !ok || index < 0 || index >= len(names) {
		return ""
	}
	return names[index]
}

// advanceDealer moves the button to the next ready player after the
// previous dealer seat.
func (t *TableState) advanceDealer() error {
	ready := t.readyPlayers()
	if len(ready) < 2 {
		return invariantf("cannot start a hand with %d ready players", len(ready))
	}
	next := ready[0]
	for _, p := range ready {
		if p.SeatNumber > t.DealerSeat {
			next = p
			break
		}
	}
	t.DealerSeat = next.SeatNumber
	t.DealerUUID = next.UUID
	return nil
}

// assignPositions deals in every ready player, starting from the dealer and
// going around the table in seat order.
func (t *TableState) assignPositions() {
	ready := t.readyPlayers()
	start := 0
	for i, p := range ready {
		if p.SeatNumber == t.DealerSeat {
			start = i
			break
		}
	}
	n := len(ready)
	t.Positions = make([]Position, 0, n)
	for i := 0; i < n; i++ {
		p := ready[(start+i)%n]
		p.DealtIn = true
		t.Positions = append(t.Positions, Position{
			Index:      i,
			UUID:       p.UUID,
			SeatNumber: p.SeatNumber,
			Name:       PositionName(i, n),
		})
	}
}

// blindIndices returns the small and big blind position indices. Heads up
// the dealer posts the small blind.
func (t *TableState) blindIndices() (int, int) {
	if t.isHeadsUp() {
		return 0, 1
	}
	return 1, 2
}

// seatStrictlyBetween reports whether seat lies after from and before to
// going around the table.
func seatStrictlyBetween(seat int, from int, to int) bool {
	if from < to {
		return seat > from && seat < to
	}
	// wrapped past the last seat
	return seat > from || seat < to
}

// markMissedBigBlinds flags sitting out players the big blind passed over
// since the previous hand.
func (t *TableState) markMissedBigBlinds(bigBlindSeat int) {
	if t.PreviousBigBlindSeat < 0 || t.PreviousBigBlindSeat == bigBlindSeat {
		return
	}
	for _, p := range t.seatedPlayers() {
		if !p.SittingOut {
			continue
		}
		if seatStrictlyBetween(p.SeatNumber, t.PreviousBigBlindSeat, bigBlindSeat) {
			p.OwesMissedBigBlind = true
		}
	}
}

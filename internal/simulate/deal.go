package simulate

import "strings"

// Deck layout constants.
const (
	suitCount    = 4
	ranksPerSuit = 13
	deckSize     = suitCount * ranksPerSuit
	handSize     = 13
)

// rankOrder lists card ranks high to low, matching dot-format hand strings.
const rankOrder = "AKQJT98765432"

// dealStrings holds one board's four dot-format hands.
type dealStrings struct {
	n, e, s, w string
}

// deal shuffles a full deck and splits it into four dot-format hands. Cards
// are encoded as suit*13+rank so suit and rank recover by division.
func (g *Generator) deal() dealStrings {
	deck := make([]int, deckSize)
	for i := range deck {
		deck[i] = i
	}
	g.rng.Shuffle(deckSize, func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	return dealStrings{
		n: formatHand(deck[0*handSize : 1*handSize]),
		e: formatHand(deck[1*handSize : 2*handSize]),
		s: formatHand(deck[2*handSize : 3*handSize]),
		w: formatHand(deck[3*handSize : 4*handSize]),
	}
}

// formatHand renders 13 card codes as "spades.hearts.diamonds.clubs" with
// ranks ordered high to low within each suit.
func formatHand(cards []int) string {
	var suits [suitCount][]byte
	for _, card := range cards {
		suits[card/ranksPerSuit] = append(suits[card/ranksPerSuit], rankOrder[card%ranksPerSuit])
	}

	parts := make([]string, suitCount)
	for i, ranks := range suits {
		sortRanksDesc(ranks)
		parts[i] = string(ranks)
	}
	return strings.Join(parts, ".")
}

// sortRanksDesc orders rank bytes high to low by their rankOrder position.
// Hands are 13 cards; insertion sort is plenty.
func sortRanksDesc(ranks []byte) {
	for i := 1; i < len(ranks); i++ {
		for j := i; j > 0 && strings.IndexByte(rankOrder, ranks[j]) < strings.IndexByte(rankOrder, ranks[j-1]); j-- {
			ranks[j], ranks[j-1] = ranks[j-1], ranks[j]
		}
	}
}

package quiz

import (
	"slices"
	"sync"

	"github.com/aretw0/studynotes/pkg/core"
)

// Deck holds a flashcard set and which cards are showing their back.
type Deck struct {
	mu      sync.RWMutex
	cards   []core.Flashcard
	flipped map[string]bool
}

// NewDeck returns an empty deck.
func NewDeck() *Deck {
	return &Deck{flipped: make(map[string]bool)}
}

// Load replaces the cards and turns every card face up.
func (d *Deck) Load(cards []core.Flashcard) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cards = slices.Clone(cards)
	d.flipped = make(map[string]bool)
}

// Flip toggles the card with id and reports whether it now shows its back.
// Unknown ids are ignored.
func (d *Deck) Flip(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !slices.ContainsFunc(d.cards, func(c core.Flashcard) bool { return c.ID == id }) {
		return false
	}
	d.flipped[id] = !d.flipped[id]
	return d.flipped[id]
}

// Flipped reports whether the card with id shows its back.
func (d *Deck) Flipped(id string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.flipped[id]
}

// Cards returns the cards in generator order.
func (d *Deck) Cards() []core.Flashcard {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.cards)
}

// Reset turns every card face up.
func (d *Deck) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.flipped)
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cards)
}

package quiz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/studynotes/pkg/core"
	"github.com/aretw0/studynotes/pkg/quiz"
)

func TestDeck(t *testing.T) {
	d := quiz.NewDeck()
	cards := []core.Flashcard{
		{ID: "c1", Front: "ATP", Back: "energy currency"},
		{ID: "c2", Front: "DNA", Back: "genetic material"},
	}
	d.Load(cards)

	assert.Equal(t, 2, d.Len())
	assert.Equal(t, cards, d.Cards(), "generator order kept")

	assert.True(t, d.Flip("c1"))
	assert.True(t, d.Flipped("c1"))
	assert.False(t, d.Flipped("c2"), "cards flip independently")

	assert.False(t, d.Flip("c1"))
	assert.False(t, d.Flipped("c1"))

	assert.False(t, d.Flip("unknown"))

	d.Flip("c2")
	d.Reset()
	assert.False(t, d.Flipped("c2"))

	d.Flip("c1")
	d.Load(cards[:1])
	assert.False(t, d.Flipped("c1"), "loading a new set resets flips")
}

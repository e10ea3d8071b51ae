package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studynotes/pkg/core"
	"github.com/aretw0/studynotes/pkg/quiz"
)

func withInput(t *testing.T, input string) {
	t.Helper()
	old := stdin
	stdin = bufio.NewReader(strings.NewReader(input))
	t.Cleanup(func() { stdin = old })
}

func TestAsk_PicksOption(t *testing.T) {
	withInput(t, "9\n2\n")
	var out bytes.Buffer
	got := ask(&out, quiz.View{Index: 0, Total: 1, Question: &core.Question{
		Prompt: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4",
	}})
	assert.Equal(t, "4", got)
	assert.Contains(t, out.String(), "Question 1/1: 2+2?")
	assert.Contains(t, out.String(), "2) 4")
}

func TestAsk_SkipsQuestionWithoutOptions(t *testing.T) {
	withInput(t, "\n")
	s := quiz.New("n", nil)
	require.NoError(t, s.Load(&core.Quiz{ID: "q", Questions: []core.Question{
		{Prompt: "Broken", CorrectAnswer: "x"},
		{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
	}}))

	var out bytes.Buffer
	got := ask(&out, s.View())
	assert.Empty(t, got)
	assert.Contains(t, out.String(), "no options and will be skipped")

	ans, err := s.Submit(context.Background(), got)
	require.NoError(t, err)
	assert.False(t, ans.Correct)
	v, err := s.Advance()
	require.NoError(t, err)
	assert.Equal(t, quiz.StatusAwaitingAnswer, v.Status)
	assert.Equal(t, 1, v.Index, "the quiz moves on to the next question")
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPressFirstByArrivalOrder(t *testing.T) {
	q := NewQuestion(1, testTime())

	// Later wall-clock timestamp, but first to arrive
	first := q.AddPress("p1", "Amy", testTime().Add(5*time.Second))
	second := q.AddPress("p2", "Bob", testTime())

	assert.True(t, first)
	assert.False(t, second)
	require.NotNil(t, q.FirstBuzzerID)
	assert.Equal(t, PlayerID("p1"), *q.FirstBuzzerID)
}

func TestAddPressRecordsInOrder(t *testing.T) {
	q := NewQuestion(1, testTime())
	q.AddPress("p1", "Amy", testTime())
	q.AddPress("p2", "Bob", testTime().Add(time.Second))
	q.AddPress("p3", "Cal", testTime().Add(2*time.Second))

	require.Len(t, q.Presses, 3)
	assert.Equal(t, PlayerID("p1"), q.Presses[0].PlayerID)
	assert.True(t, q.Presses[0].IsFirst)
	assert.Equal(t, PlayerID("p2"), q.Presses[1].PlayerID)
	assert.False(t, q.Presses[1].IsFirst)
	assert.Equal(t, PlayerID("p3"), q.Presses[2].PlayerID)
	assert.False(t, q.Presses[2].IsFirst)
}

func TestHasPressed(t *testing.T) {
	q := NewQuestion(1, testTime())
	q.AddPress("p1", "Amy", testTime())

	assert.True(t, q.HasPressed("p1"))
	assert.False(t, q.HasPressed("p2"))
}

func TestIsValidBuzzerSound(t *testing.T) {
	for _, sound := range []BuzzerSound{SoundPartyHorn, SoundBurps, SoundFarts, SoundScreams, SoundSnore, SoundMoan} {
		assert.True(t, IsValidBuzzerSound(sound))
	}
	assert.False(t, IsValidBuzzerSound("airhorn"))
	assert.False(t, IsValidBuzzerSound(""))
}

func TestResetBuzzerClearsTimestamp(t *testing.T) {
	p := newTestPlayer("p1", "Amy")
	ts := testTime()
	p.LastBuzzAt = &ts

	p.ResetBuzzer()
	assert.Nil(t, p.LastBuzzAt)
}

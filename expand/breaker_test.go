package expand_test

import (
	"testing"

	"github.com/mkarczewski/keysheet/expand"
	"github.com/stretchr/testify/assert"
)

func TestBreaker_trips_at_exactly_threshold(t *testing.T) {
	t.Parallel()

	b := expand.NewBreaker(3)

	assert.False(t, b.Fail(), "1st failure")
	assert.False(t, b.Fail(), "2nd failure")
	assert.True(t, b.Fail(), "3rd failure trips")
	assert.True(t, b.Tripped())
}

func TestBreaker_success_resets_count(t *testing.T) {
	t.Parallel()

	b := expand.NewBreaker(3)

	b.Fail()
	b.Fail()
	b.Reset()

	assert.False(t, b.Fail(), "count restarts after reset")
	assert.False(t, b.Fail())
	assert.True(t, b.Fail())
}

func TestNewBreaker_default_threshold(t *testing.T) {
	t.Parallel()

	b := expand.NewBreaker(0)

	for i := 0; i < 4; i++ {
		assert.False(t, b.Fail(), "failure %d should not trip the default threshold", i+1)
	}
	assert.True(t, b.Fail(), "5th consecutive failure trips")
}

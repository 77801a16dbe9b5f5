package product

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindValid(t *testing.T) {
	assert.True(t, KindSession.Valid())
	assert.True(t, KindVideo.Valid())
	assert.True(t, KindCourse.Valid())
	assert.False(t, Kind("PASS").Valid())
}

func TestKindNoun(t *testing.T) {
	assert.Equal(t, "session", KindSession.Noun())
	assert.Equal(t, "video", KindVideo.Noun())
	assert.Equal(t, "course", KindCourse.Noun())
}

func TestAvailableAt(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	open := Product{}
	assert.True(t, open.AvailableAt(now))

	upcoming := Product{ValidFrom: &future}
	assert.False(t, upcoming.AvailableAt(now))

	expired := Product{ValidUntil: &past}
	assert.False(t, expired.AvailableAt(now))

	window := Product{ValidFrom: &past, ValidUntil: &future}
	assert.True(t, window.AvailableAt(now))
}

func TestIsFree(t *testing.T) {
	assert.True(t, (&Product{PriceCents: 0}).IsFree())
	assert.False(t, (&Product{PriceCents: 100}).IsFree())
}

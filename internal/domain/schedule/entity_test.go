package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeOfDay(t *testing.T) {
	tod := NewTimeOfDay(10, 30)

	assert.Equal(t, 10, tod.Hour())
	assert.Equal(t, 30, tod.Minute())
	assert.Equal(t, "10:30", tod.String())
	assert.True(t, tod.Valid())

	assert.False(t, TimeOfDay(-1).Valid())
	assert.False(t, TimeOfDay(24*60).Valid())

	date := time.Date(2025, 12, 22, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 12, 22, 10, 30, 0, 0, time.UTC), tod.At(date))
}

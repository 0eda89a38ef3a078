package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  Clock
	}{
		{name: "12h pm", input: "7:00 PM", want: Clock{Hour: 19}},
		{name: "12h pm lowercase", input: "7:00 pm", want: Clock{Hour: 19}},
		{name: "12h am", input: "9:30 AM", want: Clock{Hour: 9, Minute: 30}},
		{name: "24h", input: "19:00", want: Clock{Hour: 19}},
		{name: "24h with seconds", input: "08:15:00", want: Clock{Hour: 8, Minute: 15}},
		{name: "compact pm", input: "11:59PM", want: Clock{Hour: 23, Minute: 59}},
		{name: "hour only pm", input: "3 PM", want: Clock{Hour: 15}},
		{name: "midnight fallback garbage", input: "garbage", want: Clock{}},
		{name: "midnight fallback prose", input: "Before Class", want: Clock{}},
		{name: "empty", input: "", want: Clock{}},
		{name: "surrounding whitespace", input: "  10:00  ", want: Clock{Hour: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ParseClock(tt.input))
		})
	}
}

func TestClockBefore(t *testing.T) {
	t.Parallel()

	assert.True(t, Clock{Hour: 0, Minute: 30}.before(Clock{Hour: 23}))
	assert.True(t, Clock{Hour: 10}.before(Clock{Hour: 10, Minute: 50}))
	assert.False(t, Clock{Hour: 10, Minute: 50}.before(Clock{Hour: 10, Minute: 50}))
	assert.False(t, Clock{Hour: 11}.before(Clock{Hour: 10}))
}

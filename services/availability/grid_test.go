package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridValidation(t *testing.T) {
	tests := []struct {
		name        string
		open, close string
		granularity int
		wantErr     bool
	}{
		{"valid half-hour grid", "09:00", "18:00", 30, false},
		{"valid hour grid", "09:00", "18:00", 60, false},
		{"granularity does not divide window", "09:00", "18:00", 25, true},
		{"close before open", "18:00", "09:00", 30, true},
		{"close equals open", "09:00", "09:00", 30, true},
		{"zero granularity", "09:00", "18:00", 0, true},
		{"negative granularity", "09:00", "18:00", -30, true},
		{"bad open clock", "9am", "18:00", 30, true},
		{"bad close clock", "09:00", "25:00", 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.open, tt.close, tt.granularity)
			if tt.wantErr {
				require.Error(t, err)
				var cfgErr *ConfigurationError
				assert.ErrorAs(t, err, &cfgErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestGridSlotsCoverWindow(t *testing.T) {
	grid, err := NewGrid("09:00", "18:00", 30)
	require.NoError(t, err)

	slots := grid.Slots()
	require.Len(t, slots, 18)

	// Contiguous, non-overlapping, covering exactly [open, close).
	assert.Equal(t, grid.OpenMin, slots[0].Start)
	assert.Equal(t, grid.CloseMin, slots[len(slots)-1].End)
	for i, s := range slots {
		assert.Equal(t, 30, s.End-s.Start)
		assert.True(t, s.Available)
		if i > 0 {
			assert.Equal(t, slots[i-1].End, s.Start)
		}
	}
}

func TestGridSlotsDeterministic(t *testing.T) {
	grid, err := NewGrid("10:00", "12:00", 30)
	require.NoError(t, err)

	first := grid.Slots()
	second := grid.Slots()
	assert.Equal(t, first, second)

	// Mutating one result must not leak into the next call.
	first[0].Available = false
	assert.True(t, grid.Slots()[0].Available)
}

func TestGridContains(t *testing.T) {
	grid, err := NewGrid("09:00", "18:00", 30)
	require.NoError(t, err)

	assert.True(t, grid.Contains(9*60, 10*60))
	assert.True(t, grid.Contains(9*60, 18*60))
	assert.False(t, grid.Contains(8*60+30, 10*60))
	assert.False(t, grid.Contains(17*60, 18*60+30))
}

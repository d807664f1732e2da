package votes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		cast         []string
		wantAverage  *float64
		wantMajority *string
		wantTotal    int
	}{
		{
			name:      "no votes",
			cast:      nil,
			wantTotal: 0,
		},
		{
			name:         "single vote",
			cast:         []string{"8"},
			wantAverage:  f(8),
			wantMajority: s("8"),
			wantTotal:    1,
		},
		{
			name:         "clear majority",
			cast:         []string{"5", "8", "8"},
			wantAverage:  f(7),
			wantMajority: s("8"),
			wantTotal:    3,
		},
		{
			name:         "tie goes to smaller card",
			cast:         []string{"3", "5"},
			wantAverage:  f(4),
			wantMajority: s("3"),
			wantTotal:    2,
		},
		{
			name:         "numeric tie beats sentinel tie",
			cast:         []string{"13", "?"},
			wantAverage:  f(13),
			wantMajority: s("13"),
			wantTotal:    2,
		},
		{
			name:         "sentinels only",
			cast:         []string{"?", "?", "coffee"},
			wantAverage:  nil,
			wantMajority: s("?"),
			wantTotal:    3,
		},
		{
			name:         "empty strings skipped",
			cast:         []string{"", "2", ""},
			wantAverage:  f(2),
			wantMajority: s("2"),
			wantTotal:    1,
		},
		{
			name:         "mixed numeric and sentinel average",
			cast:         []string{"1", "2", "?"},
			wantAverage:  f(1.5),
			wantMajority: s("1"),
			wantTotal:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.cast)
			assert.Equal(t, tt.wantTotal, got.Total)
			if tt.wantAverage == nil {
				assert.Nil(t, got.Average)
			} else {
				assert.NotNil(t, got.Average)
				assert.InDelta(t, *tt.wantAverage, *got.Average, 1e-9)
			}
			if tt.wantMajority == nil {
				assert.Nil(t, got.Majority)
			} else {
				assert.NotNil(t, got.Majority)
				assert.Equal(t, *tt.wantMajority, *got.Majority)
			}
		})
	}
}

func TestSummarizeDistribution(t *testing.T) {
	got := Summarize([]string{"8", "8", "5", "?"})
	assert.Equal(t, map[string]int{"8": 2, "5": 1, "?": 1}, got.Distribution)
}

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

package adapter

import (
	"reflect"
	"testing"
)

func TestParseQueueWeights(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]int
	}{
		{"critical=6,default=3,low=1", map[string]int{"critical": 6, "default": 3, "low": 1}},
		{"pulse=2, default=1", map[string]int{"pulse": 2, "default": 1}},
		{"solo", map[string]int{"solo": 1}},
		{"bad=zero", map[string]int{"bad": 1}},
		{"neg=-2", map[string]int{"neg": 1}},
		{"", map[string]int{}},
		{" , ,", map[string]int{}},
		{"=5", map[string]int{}},
	}
	for _, tt := range tests {
		if got := parseQueueWeights(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseQueueWeights(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

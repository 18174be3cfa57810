package paging

import (
	"net/http/httptest"
	"testing"
)

func TestWindow_ParseLimit(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"missing", "/logs", 20},
		{"valid", "/logs?limit=50", 50},
		{"zero clamps up", "/logs?limit=0", 1},
		{"negative clamps up", "/logs?limit=-5", 1},
		{"too large", "/logs?limit=500", 100},
		{"not a number", "/logs?limit=abc", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			if got := ActivityLogs.ParseLimit(r, "limit"); got != tt.want {
				t.Errorf("ParseLimit(%q) = %d, want %d", tt.target, got, tt.want)
			}
		})
	}
}

func TestWindow_Clamp(t *testing.T) {
	w := Window{Default: 5, Min: 2, Max: 8}
	for in, want := range map[int]int{0: 2, 2: 2, 5: 5, 8: 8, 9: 8} {
		if got := w.Clamp(in); got != want {
			t.Errorf("Clamp(%d) = %d, want %d", in, got, want)
		}
	}
}

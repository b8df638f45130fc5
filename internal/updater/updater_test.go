package updater

import "testing"

func TestIsOutdated(t *testing.T) {
	tests := []struct {
		output string
		want   bool
	}{
		{output: "", want: false},
		{output: "mkvtoolnix (88.0) < 89.0\n", want: true},
		{output: "Warning: No available formula\n", want: false},
	}
	for _, tt := range tests {
		if got := IsOutdated(tt.output); got != tt.want {
			t.Errorf("IsOutdated(%q) = %v, want %v", tt.output, got, tt.want)
		}
	}
}

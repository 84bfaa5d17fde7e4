package testutil

import "testing"

func TestStripAnsiCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no codes", "Hello World", "Hello World"},
		{"simple color", "\x1b[31mRed\x1b[0m", "Red"},
		{"bold and color", "\x1b[1;32mGreen Bold\x1b[0m", "Green Bold"},
		{"multiple codes", "Normal \x1b[33mYellow\x1b[0m \x1b[34mBlue\x1b[0m", "Normal Yellow Blue"},
		{"256-color", "\x1b[38;5;39mAccent\x1b[0m", "Accent"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StripAnsiCodes(tt.input); got != tt.want {
				t.Errorf("StripAnsiCodes(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

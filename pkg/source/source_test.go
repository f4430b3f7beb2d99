package source

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		input string
		want  Kind
	}{
		{"./internal/shop", KindGo},
		{"./...", KindGo},
		{"types.json", KindModel},
		{"dir/Types.YAML", KindModel},
		{"model.yml", KindModel},
		{"notes.txt", KindGo},
	}
	for _, tt := range tests {
		if got := Detect(tt.input); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

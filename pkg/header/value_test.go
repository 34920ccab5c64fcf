package header

import "testing"

func TestNewValue(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"plain", "application/json", false},
		{"leading space", " application/json", true},
		{"trailing tab", "application/json\t", true},
		{"embedded cr", "a\rb", true},
		{"embedded lf", "a\nb", true},
		{"empty is valid", "", false},
		{"non-ascii is permitted", "café", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewValue(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewValue(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

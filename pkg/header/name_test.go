package header

import "testing"

func TestNewName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Name
		wantErr bool
	}{
		{"lowercase", "content-type", ContentType, false},
		{"uppercase folds", "Content-Type", ContentType, false},
		{"mixed case folds", "cOnNeCtIoN", Connection, false},
		{"token punctuation", "X-My!Header#1", "x-my!header#1", false},
		{"empty", "", "", true},
		{"space", "content type", "", true},
		{"colon", "content:type", "", true},
		{"crlf", "content-type\r\n", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("NewName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewName_CaseInsensitiveEquality(t *testing.T) {
	lower, err := NewName("accept-encoding")
	if err != nil {
		t.Fatal(err)
	}
	upper, err := NewName("Accept-Encoding")
	if err != nil {
		t.Fatal(err)
	}
	if lower != upper {
		t.Errorf("NewName(lower) != NewName(upper): %q != %q", lower, upper)
	}
}

package phone

import "testing"

func TestKey(t *testing.T) {
	n := NewNormalizer("EG")

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"national format", "01001234567", "+201001234567"},
		{"spaces and dashes", "010 0123-4567", "+201001234567"},
		{"international format", "+20 100 123 4567", "+201001234567"},
		{"arabic-indic digits", "٠١٠٠١٢٣٤٥٦٧", "+201001234567"},
		{"unparseable keeps digits", "ext. 42-17", "4217"},
		{"blank", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Key(tt.raw); got != tt.want {
				t.Errorf("Key(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestKeyMatchesSameCustomer(t *testing.T) {
	n := NewNormalizer("eg")
	if n.Key("01001234567") != n.Key("+201001234567") {
		t.Fatal("national and international forms of the same number must share a key")
	}
	if n.Key("01001234567") == n.Key("01001234568") {
		t.Fatal("different numbers must not share a key")
	}
}

package forms

import "testing"

func TestValidPhone(t *testing.T) {
	cases := []struct {
		phone string
		want  bool
	}{
		{"+375 29 123 45 67", true},
		{"+375291234567", true},
		{"+37529 123 45 67", true},
		{"375 29 123 45 67", false},
		{"+375 29 123 45 6", false},
		{"+7 929 123 45 67", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidPhone(tc.phone); got != tc.want {
			t.Errorf("ValidPhone(%q) = %v, want %v", tc.phone, got, tc.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"anna@example.com", true},
		{"a.b+tag@mail.ru", true},
		{"no-at-sign", false},
		{"two@@signs.com", false},
		{"spaces in@mail.com", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidEmail(tc.email); got != tc.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestValidName(t *testing.T) {
	if !ValidName("Ян") {
		t.Errorf("two-rune name must be valid")
	}
	if ValidName("Я") {
		t.Errorf("single-rune name must be invalid")
	}
	if ValidName("  a  ") {
		t.Errorf("whitespace does not count toward length")
	}
}

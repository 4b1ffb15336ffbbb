package uprop

import "testing"

func TestIsValidPropertyName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"L", true},
		{"Ll", true},
		{"Basic_Latin", true},
		{"Cyrillic", true},
		{"Alphabetic", true},
		{"", false},
		{"NotAProperty", false},
	}
	for _, tc := range cases {
		if got := IsValidPropertyName(tc.name); got != tc.want {
			t.Errorf("IsValidPropertyName(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMatchesCategories(t *testing.T) {
	if !Matches('a', "Ll") {
		t.Error("'a' should be Ll")
	}
	if !Matches('A', "Lu") {
		t.Error("'A' should be Lu")
	}
	if Matches('1', "L") {
		t.Error("'1' should not be L")
	}
	if !Matches('1', "Nd") {
		t.Error("'1' should be Nd")
	}
}

func TestMatchesBlocks(t *testing.T) {
	if !Matches('a', "Basic_Latin") {
		t.Error("'a' should be in Basic_Latin")
	}
	if !Matches('А', "Cyrillic") {
		t.Error("U+0410 should be in Cyrillic")
	}
}

func TestMatchesSurrogatesFalse(t *testing.T) {
	if Matches(0xD800, "L") {
		t.Error("surrogate codepoint must never match any property")
	}
}

func TestMatchesUnknownProperty(t *testing.T) {
	if Matches('a', "TotallyBogus") {
		t.Error("unknown property must return false")
	}
}

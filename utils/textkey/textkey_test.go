package textkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanon(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"École Polytechnique", "ecole-polytechnique"},
		{"ecole polytechnique", "ecole-polytechnique"},
		{"Universität Wien", "universitat-wien"},
		{"Computer   Science & Engineering", "computer-science-engineering"},
		{"  Trailing punctuation!!! ", "trailing-punctuation"},
		{"UPPER lower 42", "upper-lower-42"},
		{"", ""},
		{"---", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Canon(tc.in), "Canon(%q)", tc.in)
	}
}

func TestUFKey(t *testing.T) {
	assert.Equal(t,
		"universite-de-montreal::genie-informatique",
		UFKey("Université de Montréal", "Génie Informatique"))

	// Same key regardless of casing and accents on either side.
	assert.Equal(t,
		UFKey("Université de Montréal", "Génie Informatique"),
		UFKey("universite DE montreal", "genie informatique"))

	assert.Equal(t, "::", UFKey("", ""))
}

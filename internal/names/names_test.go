package names_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jburnford/philosophical-transactions-ocr-1665-1869/internal/names"
)

func TestStripHonorific(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Mr. Henry Oldenburg", "Henry Oldenburg"},
		{"Dr. Wallis", "Wallis"},
		{"Sir Isaac Newton", "Isaac Newton"},
		{"Monsieur Cassini", "Cassini"},
		{"Signor Malpighi", "Malpighi"},
		{"M. Huygens", "Huygens"},
		{"Fr. Kircher", "Kircher"},
		{"Robert Hooke", "Robert Hooke"},
		{"Mr.Smith", "Mr.Smith"},
		// Only the first matching prefix is removed.
		{"Dr. Sir John Pringle", "Sir John Pringle"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, names.StripHonorific(tc.in), tc.in)
	}
}

func TestSearchForms(t *testing.T) {
	assert.Equal(t, []string{"Isaac Newton", "Sir Isaac Newton"}, names.SearchForms("Sir Isaac Newton"))
	assert.Equal(t, []string{"Robert Boyle"}, names.SearchForms("  Robert Boyle "))
	// A bare honorific keeps the original as the only form.
	assert.Equal(t, []string{"Mr."}, names.SearchForms("Mr. "))
}

func TestSearchFormsNormalizesToNFC(t *testing.T) {
	decomposed := "Rene\u0301 Descartes"
	forms := names.SearchForms(decomposed)
	assert.Equal(t, []string{"Ren\u00e9 Descartes"}, forms)
}

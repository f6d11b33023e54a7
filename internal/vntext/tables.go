package vntext

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Rows of the vowel table. Column 0 is the untoned vowel, columns 1-5 carry
// the huyền, sắc, hỏi, ngã and nặng tones in that order.
var vowelBases = []rune{'a', 'ă', 'â', 'e', 'ê', 'i', 'o', 'ô', 'ơ', 'u', 'ư', 'y'}

// Rows that take the tone mark when a syllable has several vowels.
const (
	rowECircumflex = 4 // ê
	rowOHorn       = 8 // ơ
)

// toneMarks lists the combining marks for tones 1-5.
var toneMarks = []rune{'\u0300', '\u0301', '\u0309', '\u0303', '\u0323'}

// vowelInfo locates a precomposed vowel in the table.
type vowelInfo struct {
	row   int
	tone  int
	upper bool
}

var (
	// vowelForms[upper][row][tone] is the precomposed letter.
	vowelForms [2][][6]rune

	// vowelIndex maps every precomposed vowel (both cases, all tones) to its cell.
	vowelIndex = make(map[rune]vowelInfo)

	// combiningTone maps a combining tone mark to its tone column.
	combiningTone = make(map[rune]int)

	// composer rewrites base vowel + combining tone into the precomposed letter.
	composer *strings.Replacer
)

func init() {
	for i, m := range toneMarks {
		combiningTone[m] = i + 1
	}

	var pairs []string
	for c := 0; c < 2; c++ {
		upper := c == 1
		vowelForms[c] = make([][6]rune, len(vowelBases))
		for row, base := range vowelBases {
			if upper {
				base = unicode.ToUpper(base)
			}
			vowelForms[c][row][0] = base
			vowelIndex[base] = vowelInfo{row: row, tone: 0, upper: upper}

			for i, m := range toneMarks {
				decomposed := string(base) + string(m)
				composed := []rune(norm.NFC.String(decomposed))[0]
				vowelForms[c][row][i+1] = composed
				vowelIndex[composed] = vowelInfo{row: row, tone: i + 1, upper: upper}
				pairs = append(pairs, decomposed, string(composed))
			}
		}
	}
	composer = strings.NewReplacer(pairs...)
}

func caseIndex(upper bool) int {
	if upper {
		return 1
	}
	return 0
}

// isWordRune reports whether r belongs to a word: letters, combining marks,
// numbers and connector punctuation such as '_'.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r) || unicode.Is(unicode.Pc, r)
}

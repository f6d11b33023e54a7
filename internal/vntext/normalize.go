// Package vntext canonicalises Vietnamese text so that articles typed with
// different encodings and tone conventions compare equal.
//
// Normalize is total and idempotent: Normalize(Normalize(s)) == Normalize(s)
// for every input.
package vntext

import (
	"regexp"
	"strings"
	"unicode"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Normalize applies, in order: tag stripping, composition of decomposed
// vowels, tone re-placement per syllable, and removal of characters that
// are neither word characters nor whitespace followed by whitespace collapse.
func Normalize(text string) string {
	text = StripTags(text)
	text = ComposeVowels(text)
	text = PlaceTones(text)
	return CleanCharacters(text)
}

// StripTags removes anything that looks like a markup tag.
func StripTags(text string) string {
	return tagPattern.ReplaceAllString(text, "")
}

// ComposeVowels rewrites a base vowel followed by a combining tone mark into
// the single precomposed letter.
func ComposeVowels(text string) string {
	return composer.Replace(text)
}

// PlaceTones moves the tone of every syllable onto its conventional vowel.
// A syllable is a maximal run of word characters.
func PlaceTones(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	runes := []rune(text)
	for i := 0; i < len(runes); {
		if !isWordRune(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}
		j := i
		for j < len(runes) && isWordRune(runes[j]) {
			j++
		}
		for _, r := range placeSyllableTone(runes[i:j]) {
			b.WriteRune(r)
		}
		i = j
	}
	return b.String()
}

// placeSyllableTone strips every tone in the syllable and puts the last one
// seen back on a single vowel: the only vowel, else the first ê/ơ, else the
// second vowel. Combining tone marks directly after a vowel count as that
// vowel's tone and are dropped.
func placeSyllableTone(syllable []rune) []rune {
	out := make([]rune, 0, len(syllable))
	var positions []int
	tone := 0
	afterVowel := false

	for _, r := range syllable {
		if t, ok := combiningTone[r]; ok && afterVowel {
			tone = t
			continue
		}
		info, ok := vowelIndex[r]
		if !ok {
			out = append(out, r)
			afterVowel = false
			continue
		}
		if info.tone != 0 {
			tone = info.tone
		}
		positions = append(positions, len(out))
		out = append(out, vowelForms[caseIndex(info.upper)][info.row][0])
		afterVowel = true
	}

	if len(positions) == 0 {
		return out
	}

	target := positions[0]
	if len(positions) > 1 {
		target = positions[1]
		for _, pos := range positions {
			row := vowelIndex[out[pos]].row
			if row == rowECircumflex || row == rowOHorn {
				target = pos
				break
			}
		}
	}

	info := vowelIndex[out[target]]
	out[target] = vowelForms[caseIndex(info.upper)][info.row][tone]
	return out
}

// CleanCharacters replaces every rune that is neither a word character nor
// whitespace with a space, collapses whitespace runs and trims the result.
func CleanCharacters(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || isWordRune(r) {
			return r
		}
		return ' '
	}, text)
	return strings.Join(strings.Fields(cleaned), " ")
}

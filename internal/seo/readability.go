package seo

import (
	"math"
	"strings"
	"unicode"
)

// Readability is the Flesch reading ease of plain text, clamped to 0..100. Higher is easier.
func Readability(text string) int {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	sentences := 0
	syllables := 0
	for _, w := range words {
		if strings.ContainsAny(w[len(w)-1:], ".!?") {
			sentences++
		}
		syllables += countSyllables(w)
	}
	if sentences == 0 {
		sentences = 1
	}

	score := 206.835 - 1.015*float64(len(words))/float64(sentences) - 84.6*float64(syllables)/float64(len(words))
	return int(math.Round(math.Max(0, math.Min(maxScore, score))))
}

// countSyllables estimates syllables as groups of vowels, at least one per word.
func countSyllables(word string) int {
	word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool { return !unicode.IsLetter(r) }))
	if word == "" {
		return 0
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

package extractor

import (
	"strings"
	"unicode"
)

// FleschReadingEase computes the Flesch reading-ease score for English text.
// Higher is easier; scores at or below 30 read as very difficult. Returns 0
// for text without any words or sentences, which callers treat as "signal
// absent" rather than "unreadable".
//
// Syllable counts use a vowel-group heuristic rather than a dictionary;
// that is accurate enough for a coarse difficulty threshold.
func FleschReadingEase(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	sentences := countSentences(text)
	if sentences == 0 {
		sentences = 1
	}

	var syllables int
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordCount := float64(len(words))
	score := 206.835 - 1.015*(wordCount/float64(sentences)) - 84.6*(float64(syllables)/wordCount)
	return score
}

// countSentences counts sentence terminators, treating runs like "?!" as one.
func countSentences(text string) int {
	count := 0
	inTerminator := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inTerminator {
				count++
				inTerminator = true
			}
		default:
			inTerminator = false
		}
	}
	return count
}

// countSyllables estimates syllables in one word by counting vowel groups.
// A trailing silent 'e' is discounted; every word has at least one syllable.
func countSyllables(word string) int {
	word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	if word == "" {
		return 1
	}

	groups := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			groups++
		}
		prevVowel = vowel
	}

	if strings.HasSuffix(word, "e") && groups > 1 {
		groups--
	}
	if groups < 1 {
		groups = 1
	}
	return groups
}

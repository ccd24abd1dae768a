package domain

import "unicode"

// TokenCounter estimates how many model tokens a piece of text occupies.
// The chunker takes it as an explicit dependency so callers can plug in a
// real tokenizer; CountTokens is the documented default.
type TokenCounter interface {
	Count(text string) int
}

// TokenCounterFunc adapts a function to the TokenCounter interface.
type TokenCounterFunc func(text string) int

// Count implements TokenCounter.
func (f TokenCounterFunc) Count(text string) int {
	return f(text)
}

// wordsPerToken is the word-to-token expansion used by the default
// estimator: one English word is roughly 1.3 tokens.
const wordsPerToken = 1.3

// charsPerToken is the secondary bound: four characters per token, which
// catches dense text with few word breaks.
const charsPerToken = 4

// CountTokens is the default token estimator: word count scaled by 1.3,
// floored at one token per four characters. It is deterministic and
// tokenizer-free, which keeps the chunker's output reproducible across
// platforms.
func CountTokens(text string) int {
	words := 0
	chars := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		chars++
		if !inWord {
			inWord = true
			words++
		}
	}

	estimate := int(float64(words) * wordsPerToken)
	if floor := chars / charsPerToken; floor > estimate {
		return floor
	}
	return estimate
}

// DefaultTokenCounter returns the word-estimate counter used when the
// caller supplies none.
func DefaultTokenCounter() TokenCounter {
	return TokenCounterFunc(CountTokens)
}

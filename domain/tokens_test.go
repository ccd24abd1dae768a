package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "whitespace only", text: "  \n\t  ", want: 0},
		{name: "single word", text: "hello", want: 1},
		{name: "two words", text: "hello world", want: 2},
		{name: "ten words", text: "one two three four five six seven eight nine ten", want: 13},
		{name: "collapsed whitespace", text: "a   b\n\nc\td", want: 5},
		{name: "dense text bounded by characters", text: "aaaaaaaaaaaaaaaaaaaa", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountTokens(tt.text))
		})
	}
}

func TestTokenCounterFunc(t *testing.T) {
	counter := TokenCounterFunc(func(text string) int {
		return len(text)
	})
	assert.Equal(t, 5, counter.Count("hello"))
}

func TestDefaultTokenCounter(t *testing.T) {
	counter := DefaultTokenCounter()
	assert.Equal(t, CountTokens("some sample text"), counter.Count("some sample text"))
}

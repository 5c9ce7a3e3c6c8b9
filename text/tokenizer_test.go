package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	s := "my refund, please!   "
	s = Normalize(s)

	assert.Equal(t, "my refund  please", s)
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("charged twice, no refund after 3 weeks")
	require.Len(t, tokens, 6)
	assert.Equal(t, Tokens{"charged", "twice", "no", "refund", "after", "weeks"}, tokens)
}

func TestNormalizeTokens(t *testing.T) {
	tokens := NormalizeTokens("The agent NEVER responded to my billing complaint.")
	assert.Equal(t, Tokens{"agent", "never", "respond", "bill", "complaint"}, tokens)
}

func TestNormalizeTokensDegenerateInputs(t *testing.T) {
	for _, s := range []string{"", "!!! ???", "12345 678", "   ", "\x80\xff"} {
		assert.NotPanics(t, func() {
			tokens := NormalizeTokens(s)
			assert.Empty(t, tokens, "input %q should normalize to no tokens", s)
		})
	}
}

func TestNormalizeTokensDeterministic(t *testing.T) {
	in := "Account was closed without notice, very disappointed"
	first := NormalizeTokens(in)
	second := NormalizeTokens(in)
	assert.Equal(t, first, second)
}

func TestProcessorApply(t *testing.T) {
	p := NewProcessor(Lower, Uniquify)
	tokens := p.Apply(Tokens{"Refund", "refund", "Delay"})
	assert.Equal(t, Tokens{"refund", "delay"}, tokens)
}

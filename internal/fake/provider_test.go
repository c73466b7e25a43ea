package fake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameSeedReproducesValues(t *testing.T) {
	a := NewProvider(3)
	b := NewProvider(3)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Company(), b.Company())
		assert.Equal(t, a.ProductName(), b.ProductName())
		assert.Equal(t, a.Street(), b.Street())
	}
}

func TestEmailShape(t *testing.T) {
	p := NewProvider(4)
	email := p.Email("James", "Smith")
	assert.True(t, strings.HasPrefix(email, "james.smith@"))
	assert.Contains(t, email, "@")
}

func TestSentenceWordCount(t *testing.T) {
	p := NewProvider(5)
	assert.Len(t, strings.Fields(p.Sentence(6)), 6)
	assert.Empty(t, p.Sentence(0))
}

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopics(t *testing.T) {
	t.Parallel()

	input := `Here is the plan:

31. Interfaces
32. **Embedding**
  33. Generics basics
not a topic
34.missing space
`

	assert.Equal(t, []string{"Interfaces", "Embedding", "Generics basics"}, Topics(input))
}

func TestTopics_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Topics(""))
	assert.Empty(t, Topics("no numbered lines here"))
}

func TestTopics_BoldIndices(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Intro", "Next"}, Topics("**1.** Intro\n**2.** Next"))
	assert.Equal(t, []string{"Intro"}, Topics("__1)__ Intro"))
}

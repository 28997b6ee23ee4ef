package id_gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewId(t *testing.T) {
	idgen := NewIDGenerator(2)
	defer idgen.Stop()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := idgen.NewID()
		assert.NotEmpty(t, id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 100)

	idgen.Stop()
	// stopping twice is safe
	idgen.Stop()
}

package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForMode(t *testing.T) {
	assert.Equal(t, "day", ForMode(false).Name)
	assert.Equal(t, "night", ForMode(true).Name)
	assert.NotEqual(t, Day.Background, Night.Background)
}

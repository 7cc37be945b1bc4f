package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoShortensCommit(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	Version = "1.0.0"
	Commit = "unknown"
	assert.Equal(t, "1.0.0", Info())

	Commit = "abcdef0123456789"
	assert.Equal(t, "1.0.0 (abcdef0)", Info())
}

func TestFull(t *testing.T) {
	assert.True(t, strings.HasPrefix(Full(), "keyoverlap version "+Version+"\n"))
}

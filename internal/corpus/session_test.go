package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func feed(s *Session, lines ...string) {
	for _, line := range lines {
		s.Add(line)
	}
}

func TestSession_CollapsesBlankRuns(t *testing.T) {
	s := NewSession(2)
	feed(s, "a", "", "", "", "b")

	assert.Equal(t, []string{"a", "", "b"}, s.Lines())
}

func TestSession_FirstBlankIsKept(t *testing.T) {
	s := NewSession(2)
	feed(s, "", "a")

	assert.Equal(t, []string{"", "a"}, s.Lines())
}

func TestSession_LargerMaximum(t *testing.T) {
	s := NewSession(3)
	feed(s, "a", "", "", "", "", "b")

	assert.Equal(t, []string{"a", "", "", "b"}, s.Lines())
}

func TestSession_MaxOneDropsEveryBlank(t *testing.T) {
	s := NewSession(1)
	feed(s, "a", "", "b", "")

	assert.Equal(t, []string{"a", "b"}, s.Lines())
}

func TestSession_GlobalDedup(t *testing.T) {
	s := NewSession(2)
	feed(s, "a", "b", "", "b", "c", "a", "")

	assert.Equal(t, []string{"a", "b", "", "c", ""}, s.Lines())
	assert.Equal(t, 3, s.Unique())
	assert.True(t, s.Seen("c"))
	assert.False(t, s.Seen(""))
}

func TestSession_DuplicateDoesNotResetBlankRun(t *testing.T) {
	s := NewSession(2)
	feed(s, "a", "", "a", "")

	assert.Equal(t, []string{"a", ""}, s.Lines())
	assert.Equal(t, 1, s.duplicates)
	assert.Equal(t, 1, s.blankDropped)
}

func TestSession_DefaultMaximum(t *testing.T) {
	s := NewSession(0)
	feed(s, "a", "", "")

	assert.Equal(t, []string{"a", ""}, s.Lines())
}

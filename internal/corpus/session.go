package corpus

// DefaultMaxConsecutiveBlanks is the blank-run length at which further blanks are dropped.
const DefaultMaxConsecutiveBlanks = 2

// Session is the dedup and blank-collapse state of one assembly run.
// It is created once per run, so deduplication is global across documents.
type Session struct {
	maxBlanks int
	blanks    int
	seen      map[string]struct{}
	lines     []string

	duplicates   int
	blankDropped int
	separators   int
}

// NewSession returns an empty session. maxBlanks <= 0 uses the default.
func NewSession(maxBlanks int) *Session {
	if maxBlanks <= 0 {
		maxBlanks = DefaultMaxConsecutiveBlanks
	}
	return &Session{
		maxBlanks: maxBlanks,
		seen:      make(map[string]struct{}),
	}
}

// Add feeds one trimmed, already-admitted line through the state machine and
// reports whether it was written.
//
// A blank increments the blank counter and is written only while the counter
// stays below the maximum, so at most maxBlanks-1 blanks are ever adjacent.
// Blanks never enter the seen set. A non-blank line already seen is dropped;
// otherwise it is written, recorded, and resets the counter.
func (s *Session) Add(line string) bool {
	if line == "" {
		s.blanks++
		if s.blanks >= s.maxBlanks {
			s.blankDropped++
			return false
		}
		s.separators++
		s.lines = append(s.lines, line)
		return true
	}

	if _, dup := s.seen[line]; dup {
		s.duplicates++
		return false
	}
	s.blanks = 0
	s.seen[line] = struct{}{}
	s.lines = append(s.lines, line)
	return true
}

// Seen reports whether line has already been written.
func (s *Session) Seen(line string) bool {
	_, ok := s.seen[line]
	return ok
}

// Lines returns the lines written so far.
func (s *Session) Lines() []string {
	return s.lines
}

// Unique returns the number of distinct non-blank lines written.
func (s *Session) Unique() int {
	return len(s.seen)
}

package parse

import "strings"

type state int

const (
	awaitingRecord state = iota
	inRecord
)

// field is a recognized line prefix with the handler that consumes the rest
// of the line.
type field struct {
	prefix string
	// opens is set on the prefix that starts a new record.
	opens bool
	apply func(value string)
}

// machine drives a line-oriented record grammar. flush is called with the
// current record whenever a record ends; reset starts a fresh record.
type machine struct {
	state  state
	fields []field
	flush  func()
	reset  func()
}

func (m *machine) run(raw string) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m.feed(line)
	}
	m.end()
}

func (m *machine) feed(line string) {
	for _, f := range m.fields {
		value, ok := cutPrefixFold(line, f.prefix)
		if !ok {
			continue
		}
		if f.opens {
			if m.state == inRecord {
				m.flush()
			}
			m.reset()
			m.state = inRecord
		} else if m.state == awaitingRecord {
			// Field lines before the first record have nowhere to go.
			return
		}
		f.apply(value)
		return
	}
}

func (m *machine) end() {
	if m.state == inRecord {
		m.flush()
	}
	m.state = awaitingRecord
}

// cutPrefixFold is strings.CutPrefix with ASCII case folding on the prefix.
// Markdown emphasis around the label ("**Q:**") is tolerated.
func cutPrefixFold(line, prefix string) (string, bool) {
	line = strings.TrimLeft(line, "*_ ")
	if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
		return "", false
	}
	rest := strings.TrimLeft(line[len(prefix):], "*_")
	return strings.TrimSpace(rest), true
}

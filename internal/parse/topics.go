package parse

import (
	"regexp"
	"strings"
)

var topicLine = regexp.MustCompile(`^\s*(?:Day\s+)?(\d+)[.)][*_]*\s+(.+?)\s*$`)

// Topics returns the text of every "<index>. <topic>" line in order. The
// indices themselves are not checked; callers validate the count.
func Topics(raw string) []string {
	var topics []string
	for _, line := range strings.Split(raw, "\n") {
		match := topicLine.FindStringSubmatch(strings.Trim(line, "*_ \t\r"))
		if match == nil {
			continue
		}
		topic := strings.Trim(match[2], "*_ ")
		if topic == "" {
			continue
		}
		topics = append(topics, topic)
	}
	return topics
}

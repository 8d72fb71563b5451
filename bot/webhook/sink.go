package webhook

import (
	"fmt"
	"strings"
)

// collectSink accumulates engine replies for the single JSON response the
// bridge expects. Options render as a numbered list under the prompt.
type collectSink struct {
	replies []string
}

func (s *collectSink) SendText(text string) {
	s.replies = append(s.replies, text)
}

func (s *collectSink) SendOptions(text string, options []string) {
	var b strings.Builder
	b.WriteString(text)
	for i, o := range options {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, o))
	}
	s.replies = append(s.replies, b.String())
}

func (s *collectSink) rendered() string {
	return strings.Join(s.replies, "\n\n")
}

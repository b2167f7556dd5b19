// Package description keeps a generated ticket block inside a PR body.
//
// The block is wrapped in HTML comment markers so later runs can find and
// replace it without touching what the author wrote around it.
package description

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/thomas-vilte/jiralink/internal/models"
)

const (
	MarkerStart = "<!--jira-description-action-hidden-marker-start-->"
	MarkerEnd   = "<!--jira-description-action-hidden-marker-end-->"
	WarningLine = "<!--do not remove this marker as it will break action functionality-->"
)

// whitespace is the set a single trailing character is consumed from.
const whitespace = " \t\n\r\f\v"

var (
	startRe   = literal(MarkerStart)
	endRe     = literal(MarkerEnd)
	warningRe = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(WarningLine) + `[\t\n\v\f\r ]?`)
	strayRe   = regexp.MustCompile(`(?i)(?:` + regexp.QuoteMeta(MarkerStart) + `|` + regexp.QuoteMeta(MarkerEnd) + `)[\t\n\v\f\r ]?`)
)

func literal(s string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(s))
}

// section is a body split around its marker block.
type section struct {
	prefix string
	suffix string
	found  bool
}

// Block renders the warning line and the marker pair around info.
func Block(info string) string {
	var b strings.Builder
	b.WriteString(WarningLine)
	b.WriteString("\n")
	b.WriteString(MarkerStart)
	b.WriteString("\n")
	b.WriteString(info)
	b.WriteString("\n")
	b.WriteString(MarkerEnd)
	b.WriteString("\n")
	return b.String()
}

// Merge puts info into body. An existing block is replaced in place, keeping
// the text before and after it; otherwise the block is prepended to the body
// with its stray warning lines and markers removed. Merging the same info
// twice gives the same body.
func Merge(body, info string) string {
	sec := split(body)
	if !sec.found {
		return Block(info) + stripWarnings(strayRe.ReplaceAllString(sec.suffix, ""))
	}
	return sec.prefix + Block(info) + sec.suffix
}

// HasBlock reports whether body already carries a marker block.
func HasBlock(body string) bool {
	_, _, ok := locate(body)
	return ok
}

func split(body string) section {
	start, end, ok := locate(body)
	if !ok {
		return section{suffix: body}
	}
	return section{
		prefix: stripWarnings(body[:start]),
		suffix: stripWarnings(body[end:]),
		found:  true,
	}
}

func stripWarnings(s string) string {
	return warningRe.ReplaceAllString(s, "")
}

// locate returns the span from the first start marker to the last end marker
// that leaves non-empty content between them, plus one trailing whitespace
// character when present.
func locate(body string) (int, int, bool) {
	start := startRe.FindStringIndex(body)
	if start == nil {
		return 0, 0, false
	}

	ends := endRe.FindAllStringIndex(body, -1)
	for i := len(ends) - 1; i >= 0; i-- {
		if ends[i][0] <= start[1] {
			break
		}
		end := ends[i][1]
		if end < len(body) && strings.IndexByte(whitespace, body[end]) >= 0 {
			end++
		}
		return start[0], end, true
	}
	return 0, 0, false
}

// BuildInfoBlock renders the ticket as an HTML table, or as its bare URL when
// skipTitle is set.
func BuildInfoBlock(t models.TicketSummary, skipTitle bool) string {
	if skipTitle {
		return t.URL
	}

	key := html.EscapeString(strings.ToUpper(t.Key))
	return fmt.Sprintf(`<table><tbody><tr><td>
  <a href="%s" title="%s" target="_blank"><img alt="%s" src="%s" /> %s</a>
  %s
</td></tr></tbody></table>`,
		html.EscapeString(t.URL),
		key,
		html.EscapeString(t.Type.Name),
		html.EscapeString(t.Type.Icon),
		key,
		html.EscapeString(t.Summary),
	)
}

package link

import (
	"fmt"
	"strings"

	"github.com/thomas-vilte/jiralink/internal/action"
	"github.com/thomas-vilte/jiralink/internal/i18n"
	"github.com/thomas-vilte/jiralink/internal/services"
)

// renderSummary builds the job summary table for a linked pull request.
func renderSummary(t *i18n.Translations, ev action.Event, out services.Outcome) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### %s\n\n", t.GetMessage("link.summary_title", 0, nil))
	b.WriteString("| | |\n|---|---|\n")

	issue := out.Key
	if out.Ticket != nil && out.Ticket.URL != "" {
		issue = fmt.Sprintf("[%s](%s)", out.Key, out.Ticket.URL)
	}
	row(&b, t.GetMessage("link.summary_issue", 0, nil), issue)

	if out.Ticket != nil && out.Ticket.Summary != "" {
		row(&b, t.GetMessage("link.summary_summary", 0, nil), out.Ticket.Summary)
	}
	row(&b, t.GetMessage("link.summary_source", 0, nil), "`"+string(out.Source)+"`")

	state := t.GetMessage("link.summary_body_unchanged", 0, nil)
	if out.Updated {
		state = t.GetMessage("link.summary_body_updated", 0, nil)
	}
	row(&b, t.GetMessage("link.summary_body", 0, nil), fmt.Sprintf("#%d %s", ev.PR.Number, state))

	if out.Version != nil {
		value := "✅ `" + out.Version.JiraVersion + "`"
		if !out.Version.Matches {
			value = "❌ " + out.Mismatch
		}
		row(&b, t.GetMessage("link.summary_fix_version", 0, nil), value)
	}

	return b.String()
}

func row(b *strings.Builder, key, value string) {
	value = strings.ReplaceAll(value, "|", `\|`)
	fmt.Fprintf(b, "| %s | %s |\n", key, value)
}

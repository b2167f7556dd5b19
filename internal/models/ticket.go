package models

type (
	// TicketSummary is the read-only snapshot of a Jira ticket used to annotate a PR.
	TicketSummary struct {
		Key         string       `json:"key"`
		Summary     string       `json:"summary"`
		URL         string       `json:"url"`
		Type        IssueType    `json:"type"`
		Project     Project      `json:"project"`
		FixVersions []FixVersion `json:"fixVersions,omitempty"`
	}

	// IssueType is the ticket type (Story, Bug...) and its icon.
	IssueType struct {
		Name string `json:"name"`
		Icon string `json:"icon"`
	}

	// Project identifies the Jira project that owns the ticket.
	Project struct {
		Name string `json:"name"`
		URL  string `json:"url"`
		Key  string `json:"key"`
	}

	// FixVersion is a release label attached to a ticket.
	FixVersion struct {
		Name string `json:"name"`
		ID   string `json:"id"`
	}
)

// FixVersionNames returns the label names in their original order.
func (t TicketSummary) FixVersionNames() []string {
	names := make([]string, len(t.FixVersions))
	for i, v := range t.FixVersions {
		names[i] = v.Name
	}
	return names
}

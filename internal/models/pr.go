package models

// Source says where an issue key is looked up.
type Source string

const (
	SourcePRTitle Source = "pr-title"
	SourceBranch  Source = "branch"
	SourceBoth    Source = "both"
)

// Valid reports whether s is one of the supported sources.
func (s Source) Valid() bool {
	switch s {
	case SourcePRTitle, SourceBranch, SourceBoth:
		return true
	}
	return false
}

// PRData contains the pull request fields the linker reads and writes.
type PRData struct {
	Number     int
	Title      string
	BranchName string
	Body       string
}

// Outputs are the values exposed to the workflow once a run finishes.
type Outputs struct {
	Key    string
	Found  bool
	Source Source
}

package list

// ActionInfo is an action reference passed to the line template.
type ActionInfo struct {
	ActionName string // owner/repo or owner/repo/path
	RepoOwner  string
	RepoName   string
	Version    string // ref
	Comment    string // version comment, e.g. v4.0.0
	FilePath   string
	FileName   string
	LineNumber int
}

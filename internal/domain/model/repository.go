package model

// RepositoryIdentity identifies a repository together with the GitHub App
// installation that delivered the event, which is needed to authenticate
// API calls against it.
type RepositoryIdentity struct {
	ID             int64
	FullName       string
	InstallationID int64
}

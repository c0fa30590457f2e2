package model

// AuthorAssociation is the relationship of a comment author to the repository,
// as reported by GitHub in the author_association field.
type AuthorAssociation string

const (
	AuthorAssociationOwner        AuthorAssociation = "OWNER"
	AuthorAssociationMember       AuthorAssociation = "MEMBER"
	AuthorAssociationCollaborator AuthorAssociation = "COLLABORATOR"
	AuthorAssociationContributor  AuthorAssociation = "CONTRIBUTOR"
	AuthorAssociationNone         AuthorAssociation = "NONE"
)

// PRState is the state filter accepted when listing pull requests.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
	PRStateAll    PRState = "all"
)

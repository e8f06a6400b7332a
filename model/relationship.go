package model

// Relationship kinds accepted by the importer. Directed: CREATED and SHARED
// start at a User, VERIFIED_BY starts at a Post.
const (
	RelationshipCreated    = "CREATED"
	RelationshipVerifiedBy = "VERIFIED_BY"
	RelationshipShared     = "SHARED"
)

// Relationship is one edge record from relationships.json, shaped
// {from, to, relationship}. From and To are node ids, matched by id during
// import regardless of label.
type Relationship struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Relationship string `json:"relationship"`
}

// ValidRelationshipKinds returns the importable edge kinds. Records with any
// other kind are skipped with a warning rather than failing the import.
func ValidRelationshipKinds() []string {
	return []string{RelationshipCreated, RelationshipVerifiedBy, RelationshipShared}
}

package model

// Verdicts recorded on a FactCheck. The set is open ended, these are the
// values the bundled datasets use.
const (
	FactCheckTrue       = "True"
	FactCheckFalse      = "False"
	FactCheckUnverified = "Unverified"
)

// FactCheck is the verification record attached to a Post through a
// VERIFIED_BY edge. Id is the stable external key used for upsert.
type FactCheck struct {
	Id         string `json:"id"`
	Status     string `json:"status"`
	VerifiedAt string `json:"verified_at"`
	Comments   string `json:"comments"`
	SourceUrl  string `json:"source_url"`
}

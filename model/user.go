package model

/*

User is an account on one of the tracked social platforms

Id: stable external key, used for upsert during bulk import
AccountCreated: account creation date, kept as the raw string from the
		import file and passed through to the graph store unchanged
Verified: platform-level verification badge, not to be confused with a
		post-level FactCheck

*/

type User struct {
	Id             string `json:"id"`
	Name           string `json:"name"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Followers      int    `json:"followers"`
	AccountCreated string `json:"account_created"`
	Verified       bool   `json:"verified"`
	Location       string `json:"location"`
}

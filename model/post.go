package model

/*

Post is a piece of content published on a social platform

Id: stable external key, used for upsert during bulk import
Timestamp: publish time, kept as the raw ISO string from the import file
AuthorId: id of the User that created this post, also materialized as a
		CREATED edge during import
SharedPostId:
		if the post is a re-share, set to the id of the Post originally
		shared. Soft reference, not enforced at import time; a dangling id
		only produces a warning when relationships are derived.

*/

type Post struct {
	Id           string   `json:"id"`
	Content      string   `json:"content"`
	Timestamp    string   `json:"timestamp"`
	Likes        int      `json:"likes"`
	Shares       int      `json:"shares"`
	Comments     int      `json:"comments"`
	Platform     string   `json:"platform"`
	Tags         []string `json:"tags"`
	AuthorId     string   `json:"author_id"`
	SharedPostId *string  `json:"shared_post_id,omitempty"`
}

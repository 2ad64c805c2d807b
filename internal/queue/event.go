// Package queue contains the content-activity events exchanged over the
// message broker, their publisher, and the background consumer that turns
// them into an audit log.
package queue

// Event kinds published on the content.activity queue.
const (
	KindTheoryCreated  = "theory.created"
	KindTheoryUpdated  = "theory.updated"
	KindTheoryDeleted  = "theory.deleted"
	KindCommentPosted  = "comment.posted"
	KindCommentDeleted = "comment.deleted"
)

// ContentEvent is published whenever an administrator mutates the catalog.
// It carries enough to audit or notify without querying the primary store.
type ContentEvent struct {
	Kind       string `json:"kind"`
	TheoryID   string `json:"theory_id,omitempty"`
	CommentID  string `json:"comment_id,omitempty"`
	ActorID    string `json:"actor_id"`
	Title      string `json:"title,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

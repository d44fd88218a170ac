package enum

// CommentAction tags a quote audit entry with the transition that produced it.
type CommentAction string

const (
	CommentActionCreate       CommentAction = "CREATE"
	CommentActionCounterOffer CommentAction = "COUNTER_OFFER"
	CommentActionAccept       CommentAction = "ACCEPT"
	CommentActionReject       CommentAction = "REJECT"
)

package events

// Topic constants for order lifecycle events.
const (
	TopicOrderSubmitted = "order.submitted"
	TopicOrderCanceled  = "order.canceled"
)

// DefaultTopics returns the canonical list of order topics.
func DefaultTopics() []string {
	return []string{
		TopicOrderSubmitted,
		TopicOrderCanceled,
	}
}

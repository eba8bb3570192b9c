package events

// Topic suffixes; publishers prepend the configured prefix.
const (
	TopicDuesAssessed   = "dues_assessed"
	TopicPaymentApplied = "payment_applied"
)

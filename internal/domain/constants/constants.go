// Package constants holds shared domain-level constant values.
package constants

// Pub/Sub provider names accepted by the pubsub.provider config key.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// TopicUserLoggedIn is the event topic notified after each successful login.
const TopicUserLoggedIn = "user_logged_in"

// RoleAdmin is the role id required by operational endpoints.
const RoleAdmin = "Admin"

// Package notify delivers error-typed events to external webhooks (Slack or
// a generic HTTP target). Webhook URLs are resolved from the environment via
// the configured url_env names, so config files never hold secrets.
//
// Delivery is fire-and-forget: the event producer has already received its
// 200 by the time delivery starts, and failures are only logged.
package notify

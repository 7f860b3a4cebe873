// Package support is the business boundary for complaint handling. It
// wraps severity classification, resolution drafting, escalation of
// High-priority complaints and retraining from the configured corpus source.
package support

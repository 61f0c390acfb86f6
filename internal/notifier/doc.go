// Package notifier fans incident updates out to subscribers over push, email,
// and SMS, and records the outcome of every send.
//
// # Contract
//
// The Dispatcher evaluates each active subscriber of an incident in order:
//  1. Critical filter: criticalOnly subscribers are skipped unless the update
//     is urgent (priority "critical" or status "escalated").
//  2. Quiet hours: subscribers inside their local do-not-disturb window are
//     skipped on every channel.
//  3. Per-channel send: push, email and SMS are attempted independently for
//     each channel that is enabled and has an address.
//
// Skipped subscribers produce no DeliveryRecord. Every attempted send produces
// exactly one, whether it succeeded, failed, or timed out.
//
// Urgent updates are pushed with priority high and the "emergency" sound;
// everything else uses priority normal and the "default" sound.
//
// # Resolution
//
// SendResolution emails the long-form report to email subscribers first and
// only then runs the regular round with status "resolved".
//
// # Broadcast
//
// BroadcastEmergencyAlert pushes to all active subscribers across incidents,
// optionally restricted by device class. Quiet hours and critical-only
// preferences do not apply. Each push token is alerted once, however many
// incidents it is subscribed to.
//
// # Concurrency
//
// Sends in a round run on a bounded errgroup (Workers). Each send has its own
// deadline (SendTimeout); a provider that ignores cancellation is abandoned at
// the deadline and recorded as types.ErrSendTimeout. An optional per-channel
// rate limit is shared by all rounds. Rounds may run concurrently with each
// other and with broadcasts.
//
// # Errors
//
// Delivery failures are data: they are recorded and counted, never returned.
// A round returns an error only when its subscribers cannot be listed.
package notifier

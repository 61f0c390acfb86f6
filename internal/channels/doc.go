// Package channels translates generic notification payloads into channel-specific
// provider requests. Every builder is a pure function; no I/O happens here.
//
// # Push
//
// BuildPush shapes a PushPayload for the target's device class:
//
//   - ios:     an APNs block (aps.alert, aps.sound, aps.badge; badge defaults to 1)
//     plus a parallel notification block for cross-platform consumers.
//   - android: a flat notification block with icon, brand color #dc2626,
//     channel_id "emergency_updates" and visibility "public".
//   - web:     a notification block plus an actions array; each action icon
//     is rendered as /icons/{icon}.png.
//
// Any other device class, including the empty string, is built exactly as web.
//
// # Email and SMS
//
// BuildEmail and BuildSMS assemble the outbound envelopes. Subject, HTML body
// and message text are produced elsewhere (see package content).
package channels

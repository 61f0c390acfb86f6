// Package providers holds the outbound HTTP clients for push, email, and SMS.
//
// # Contract
//
// Each client implements the matching notifier sender interface and performs
// exactly one HTTP request per send, bounded by the caller's context. There
// are no retries; failures are returned to the dispatcher, which records them.
//
// Non-2xx responses and provider-reported rejections are returned as
// *ProviderError (use errors.As to read the status code).
//
// # Simulation mode
//
// A client whose endpoint or credentials are empty does not touch the
// network. The send is logged with simulated=true and reported as successful
// with a synthetic message ID of the form "sim-<channel>-<uuid>".
package providers

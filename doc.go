// Package auth provides the authentication core for our backends: signed
// expiring tokens, invite verification, and current-user resolution.
//
// Token kinds:
//   - Four credential kinds (access, refresh, user-interaction/invite, and
//     reset) each sign with an independent secret and validity window, so
//     compromise of one secret never yields forgeable tokens of another kind.
//     The Manager owns issuance and expiry policy; the codec only signs and
//     verifies.
//
// Invites:
//   - A user-interaction token is an email-bound, time-boxed capability.
//     VerifyInvite decodes it, re-checks expiry, and enforces the email
//     binding. Invites are not single-use: replay of a live invite is bounded
//     only by its expiration.
//
// Resolution:
//   - CurrentUserResolver runs on every authenticated request: one local
//     signature verification, one indexed store lookup. Every failure mode
//     collapses into ErrUnauthenticated at the boundary; the cause stays in
//     the logs.
//
// The lock subpackage provides the distributed kickoff lock used to run
// one-shot startup jobs on at most one process instance.
package auth

// Package services implements the HTTP client adapter for the TDS REST API.
//
// # Client
//
// [Client] wraps an [http.Client] with a base URL, an optional credential jar, an optional
// [rate.Limiter] and a per-request timeout. Requests are plain blocking calls taking a
// [context.Context]; the TUI runs them as bubbletea commands so the event loop never waits on the network.
//
// # Outcomes
//
// Every call resolves to exactly one of:
//   - success: a [Response] with a 2xx status and a nil error
//   - HTTP failure: the [Response] plus a [*StatusError] carrying the raw status text and the
//     descriptions from the TDS error document
//   - transport failure: a nil response and an error wrapping [shared.ErrAPIRequest] or [shared.ErrTimeout]
//
// # Error Handling
//
//   - [shared.ErrNotAuthenticated] : 401/403 from any endpoint
//   - [shared.ErrAPIRequest] : transport failures and other non-2xx statuses
//   - [shared.ErrMalformedResponse] : unreadable bodies or unexpected JSON shapes
//   - [shared.ErrInvalidInput] : payloads that cannot be encoded
package services

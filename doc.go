// Package auth provides credential issuance and verification primitives:
// bcrypt password hashing, HS256 bearer tokens, and the registration and
// login flows built on top of a pluggable UserStore.
//
// Flows:
//   - RegisterUserHandler validates every input field, rejects duplicate
//     emails, hashes the password, persists the user and issues a token
//     whose claims come from the saved record (including its id).
//   - LoginUserHandler validates input, looks the user up and verifies the
//     password. Unknown emails and wrong passwords are distinct error kinds
//     that share one external message.
//
// Errors:
//   - Every failure is a go-errors rich error with a category, HTTP code and
//     text code. Use HasTextCode or ValidationFields to inspect them.
//
// Activity sinks:
//   - ActivitySink receives register and login events, including the internal
//     login failure reason. Sinks run best-effort (errors are logged).
//
// Tokens carry no expiry unless WithTokenExpiration is set. Deployments that
// need revocation by time must configure it.
package auth

// Package argus implements the incident-store collaborator: a thin HTTP
// client for the Argus incident API plus the error taxonomy the poll loop
// keys its retry/fatal policy off.
//
// The store is the source of truth for open incidents. The client holds no
// cross-call state; atomicity is delegated to the API's per-call guarantees.
//
// Errors come in two kinds:
//
//   - ConnectivityError: the API could not be reached. Transient, retried
//     with backoff by the caller.
//   - ProtocolError: the API answered with an error. Usually bad credentials
//     or a malformed request; treated as fatal for the invocation.
package argus

// Package journal persists reconciliation cycle records to a local sqlite
// database for after-the-fact inspection. Strictly write-only from the
// reconciler's point of view.
package journal

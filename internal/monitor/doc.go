// Package monitor contains the reconciliation core: the decision state
// machine and the poll loop that drives it.
//
// A monitor watches one external signal (a break timer, the moon phase) and
// keeps the incident store consistent with it under the invariant that at
// most one incident is open per monitor at any time.
//
// The design keeps no durable local memory of "the" open incident. Every
// cycle re-derives it from the store, so a freshly restarted process makes
// exactly the decisions a long-running one would. Decide is a pure function
// of (now, signal, open incidents); Loop owns all I/O and sleeping.
//
// One logical thread of control per monitor: cycles never overlap, so the
// one-open-incident invariant needs no local locking. It is only eventually
// consistent across a resolve+open pair; a failure between the two halves is
// repaired by the next cycle.
package monitor

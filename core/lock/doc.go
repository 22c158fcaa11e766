// Package lock provides per-key mutual exclusion for synchronization runs.
//
// Local serializes runs inside one process. Redis extends the guarantee across
// processes with SET NX PX and a compare-and-delete release script, so a
// holder whose lease expired can never release a lock taken by someone else.
// Both return ErrLocked immediately instead of waiting.
package lock

// Package tracker records the outcome of every channel send and derives
// operational statistics from the records.
//
// # Contract
//
// Records are appended to a Ledger and never overwritten. Several records can
// exist for the same target; the latest outcome for a target is a query over
// the log (LatestFor, LatestPerTarget), not the storage model.
//
//	RecordDelivery(ctx, rec) error
//	  - Appends rec. An empty ID is filled with a fresh UUID and a zero
//	    DeliveredAt with the tracker clock.
//
//	StatsSnapshot(ctx) (Stats, error)
//	  - Recomputed on demand in one pass over the subscriptions and one pass
//	    over the ledger.
//
//	Purge(ctx, before) (int, error)
//	  - Drops records delivered before the cutoff. Safe to run while
//	    dispatch rounds keep appending.
//
// Two Ledger implementations are provided: MemoryLedger (the default, process
// lifetime) and RedisLedger (a sorted set scored by delivery time).
package tracker

// Package datasource adapts the character store to domain objects.
//
// [LocalDataSource] is the only layer that sees storage records. Every operation, reads and writes alike,
// returns a [models.Result]; store errors and store panics are converted at this boundary and never
// propagate to callers.
//
// The Observe* methods return channels that emit the current value first and then a fresh value after every
// committed change that affects it. They close when the caller's context ends. If the subscription cannot be
// established they emit a single Error and close.
package datasource

/*
Package history records evaluation runs and orchestrates access to them.

It wraps a ports.RunStore with per-run locking, combining an in-process
mutex map with an optional distributed locker so several replicas can share
one store.
*/
package history

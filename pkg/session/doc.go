/*
Package session serializes access to drawings.

Locks is the document lock: a mutex per drawing, optionally backed by a
ports.DistributedLocker, held for the whole of an operation and released on
every exit path. The engine guards its document writes with one. Manager
adds drawing snapshots kept in a ports.DrawingStore.
*/
package session

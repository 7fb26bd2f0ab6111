// Package postgres provides PostgreSQL implementations of the store
// interfaces. Each store accepts a store.DBTX, which is satisfied by both
// *sql.DB and *sql.Tx, so the same implementation serves direct calls and
// calls made inside a transaction via WithTx.
package postgres

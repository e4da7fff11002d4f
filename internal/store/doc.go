// Package store provides abstractions and implementations for data
// persistence. It defines the interfaces the application core depends
// on (accounts, jobs, cards), shared sentinel errors, the DBTX
// abstraction over connections and transactions, and a transaction
// helper. Concrete implementations live in internal/platform/postgres.
package store

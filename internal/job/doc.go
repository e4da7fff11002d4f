// Package job wraps the card generation pipeline into an asynchronous
// unit of work with observable state. The service clamps the requested
// count against the account's quota, persists a job record, and hands a
// generation task to the background runner; clients poll the job until
// it reaches a terminal state. When the queue is unavailable the same
// pipeline runs synchronously in-process as a degraded fallback.
package job

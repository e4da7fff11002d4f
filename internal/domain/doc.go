// Package domain contains the core business entities of the application:
// accounts with plan-based usage quotas, generation jobs with an
// observable lifecycle, and the study cards a job produces.
// Entities validate themselves; persistence and transport concerns live
// in other packages.
package domain

// Package api contains the HTTP handlers, request/response models and
// error mapping for the card generation service.
package api

// Package errors provides the structured error types used across the JSA
// bridge.
//
// Two surfaces exist. The structured Error (Phase x Kind, built directly
// or through Builder) is used inside the bridge and for host-side failures.
// JSError and APIError are the embedder-facing taxonomy: JSError for
// parse/compile failures and thrown script exceptions, APIError for host
// API misuse. Wrong-thread access and handles outliving their context are
// documented preconditions, never detected, and have no error type here.
package errors

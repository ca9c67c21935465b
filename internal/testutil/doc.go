// Package testutil contains helper doubles and builders used across tests to
// reduce boilerplate when exercising savers, sinks and uploaders: a scripted
// uploader that replays a fixed sequence of outcomes, failure-injecting
// sinks, producer helpers and an event-recording observer. These helpers are
// intentionally minimal and not intended for production usage.
package testutil

// Package journal provides an in-memory record of polling attempts with a
// publish-subscribe mechanism for streaming them.
//
// The pollkit CLI appends a [Record] for every attempt and terminal event
// of the sessions it launches, and subscribes to stream them as they
// happen. Users of the pollkit library should not need to interact with
// this package directly.
package journal

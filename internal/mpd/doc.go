// Package mpd implements a client for the Music Player Daemon line protocol.
//
// The daemon speaks newline-delimited text over TCP: the client sends one
// command per line, the daemon answers with zero or more "key: value" pairs
// terminated by "OK", or a single "ACK [code@index] {command} message" line
// on failure. ACK responses surface as [*CommandError] so callers can match
// on the daemon's error codes.
//
// [Client] serializes commands over a single connection and is safe for
// concurrent use. Idle is the exception: it parks the connection until the
// daemon reports a change, so interactive surfaces run it on a dedicated
// client.
package mpd

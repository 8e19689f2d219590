// Package queue maintains the client-side mirror of the daemon's play queue.
//
// The daemon reports queue contents two ways: full listings (playlistinfo,
// listplaylistinfo) and incremental changes (plchanges), which address songs
// by position and songid. [List] keeps both access paths coherent under one
// lock: a positional sequence that may contain empty slots while changes
// stream in out of order, and a songid index over the entries that arrived
// individually.
//
// Bulk loads go through [List.Append] or [List.Replace] and skip the songid
// index on purpose; only [List.Add] indexes. Callers that need id lookups
// after a full reload resolve by position instead.
package queue

// Package chatmem maintains bounded conversation memory for a chat session.
//
// A Window keeps the last N user/assistant turns in insertion order,
// evicting the oldest turn on overflow. Turn indices are monotonic and
// never reused: the window only forgets, it never renumbers, and Clear
// empties the buffer without resetting the counter.
//
// A Session owns one Window plus the retrying call machinery from llmcall,
// turning "user typed something" into "prompt built from retained history,
// executed with retry, new turn appended on success".
//
// Neither type locks internally; a session belongs to one conversation and
// callers needing concurrency must serialize access externally.
package chatmem

// Package domain holds the saga session record and the pure rules that
// mutate it: the soulbound set-once invariant, the append-only journal,
// the pause flag, and roster name-token parsing.
package domain

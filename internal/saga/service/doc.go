// Package service implements saga turns: the ordered command dispatch
// table and the turn processor that orchestrates scrubbing, the pause
// gate, journal appends, and persistence.
package service

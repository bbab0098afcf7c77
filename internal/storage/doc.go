// Package storage defines the persistence contract for the saga session
// record. Backends live in subpackages.
package storage

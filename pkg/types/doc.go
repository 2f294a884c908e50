// Package types defines the workshop record entities, the State document that
// groups them into collections, configuration, and the standard errors shared
// by the store, the collection tables, and the CLI.
package types

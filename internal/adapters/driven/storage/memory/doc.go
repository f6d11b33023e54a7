// Package memory provides in-process implementations of the unit store and
// config store. Nothing is persisted; they back tests and dry runs.
package memory

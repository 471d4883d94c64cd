// Package registry provides a generic, thread-safe name -> item registry.
// It backs the parser namespaces and the case class field registry.
package registry

// Package driving provides interfaces for actors that drive the
// application (primary/inbound ports): the CLI, the MCP server, and the
// drop-directory watcher.
package driving

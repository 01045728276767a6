// Package driving defines what the CLI, the batch TUI and the MCP server
// call into: bill extraction, batch runs, the fixup catalog and settings.
//
// Implementations live in internal/core/services.
package driving

// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The extraction pipeline, batch processor, fixup catalog and settings
// service depend only on domain types and port interfaces.
package services

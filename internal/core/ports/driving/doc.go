// Package driving provides interfaces for application entrypoints
// (primary/inbound ports). The CLI and HTTP adapters depend on these
// interfaces; the core services implement them.
package driving

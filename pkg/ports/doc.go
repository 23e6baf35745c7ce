// Package ports defines the driven-side interfaces of framepilot. Adapters
// under pkg/adapters implement them; the registry and the CLI consume them.
package ports

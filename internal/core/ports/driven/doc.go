// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - ProximityEngine: runs one proximity search (internal/engine)
//   - DocumentLoader: turns file bytes into visible text
//   - LoaderRegistry: selects the loader for a MIME type
//   - TextProcessor: rewrites text before it is searched
//   - ConfigStore: application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, loader, or processor package
package driven

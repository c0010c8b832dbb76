// Package integration contains the Integration bounded context.
// This context manages connections to external accounting systems.
//
// Key concepts:
//   - Integration: aggregate holding the connection settings of one external system
//   - Provider: port interface implemented once per ProviderKind (test connection, sync)
//   - Registry: selects the Provider for an Integration by its stored Kind
//   - Log: persisted record of a test/sync outcome, queried for error analysis
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration

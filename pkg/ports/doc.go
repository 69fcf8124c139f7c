/*
Package ports defines the driven ports (interfaces) of the flow navigator.

These interfaces decouple the navigation core from the host environment,
allowing the same engine to run behind a terminal, an HTTP API or an MCP server.

# Key Interfaces

  - KVStore: durable string-keyed storage used by the persistence adapter.
  - Location: the host's shareable location fragment (deep links).
  - Installer: the optional "install app" capability, isolated from navigation.
  - DistributedLocker: serialises access to one session across replicas.
*/
package ports

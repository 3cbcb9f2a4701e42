/*
Package ports defines the driven ports (interfaces) for the murmur engine.

These interfaces decouple the traversal core from where rows come from, where session
state lives and how concurrent hosts coordinate.

# Key Interfaces

  - GraphProvider: position lookup and first-position query over a dialogue graph.
  - RowLoader: produces the rows a graph is built from (CSV, YAML, Markdown, ...).
  - SessionStore: keeps the per-group Session values owned by the registry.
  - DistributedLocker: serializes access to a group across host replicas.
*/
package ports

/*
Package ports defines the driven ports (interfaces) of the minibmg engine.

These interfaces decouple graph evaluation and rewriting from where graphs
are kept, so the CLI and the HTTP adapter can work with various storage
backends.

# Key Interfaces

  - GraphStore: Saves, loads, deletes and lists named graphs (memory, file
    or Redis backed).
*/
package ports

// Package driven defines the interfaces the core services require
// from infrastructure: the search crawler, the git cloner and the
// result store. Adapters under internal/connectors and
// internal/adapters/driven implement them; tests substitute fakes.
package driven

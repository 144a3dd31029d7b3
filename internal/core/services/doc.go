// Package services implements the core pipeline stages: deduplication,
// ranking, bounded-concurrency cloning and the discovery orchestrator
// that wires them together behind the cache gate.
package services

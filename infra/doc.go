// Package infra contains technical adapters: record sources, metrics
// exporters and the zerolog backed logger. These packages should depend only
// on the interfaces defined in the core packages.
package infra

// Package driving defines the interfaces through which outer layers
// (the CLI adapter) invoke the core pipeline.
package driving

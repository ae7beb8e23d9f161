// Package shell contains the listeners of the example: Book circulation in a public library.
//
// It implements the "imperative shell" around the functional core: projections and side effects
// that react to published domain events, plus shared observability and retry helpers for listeners.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell

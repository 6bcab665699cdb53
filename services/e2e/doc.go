// Package e2e wires the identity, catalog, order and billing routers together
// over real HTTP with in-memory stores. It only contains tests.
package e2e

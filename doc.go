// Package mmad implements ERC-7715-style delegated spending permissions:
// resolving a sparse permission configuration into a fully-specified
// descriptor, building the wire-format request a wallet expects, and
// redeeming granted permissions through pluggable execution strategies
// (custom function, HTTP backend, or on-chain call-data submission).
//
// The engine performs no work concurrently with itself; every call builds
// its own request and result objects, so one Client can serve unrelated
// callers concurrently. Lifecycle hooks observe or replace the payload at
// each stage, and all retry policy is caller-side composition around the
// public entry points.
package mmad

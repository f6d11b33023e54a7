// Package file provides the TOML-backed configuration store.
//
// Values live in ~/.phapdien/config.toml under dotted keys such as
// "embedding.provider", written as nested tables. Any key can be overridden
// from the environment: "store.qdrant_api_key" reads PHAPDIEN_STORE_QDRANT_API_KEY
// first. Environment overrides are never written back to the file.
package file

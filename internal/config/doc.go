// Package config loads, merges, and validates the application configuration.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// [GetStructuredConfig] builds the full server configuration, including the
// master key, token signing keys, and the secure-channel feature flags.
// [GetClientConfig] narrows it to the view the headless client needs.
package config

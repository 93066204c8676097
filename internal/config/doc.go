// Package config provides configuration loading, merging, and validation
// facilities for the go-blog-auth server.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. .env.local file (exported into the environment when present)
//  2. Environment variables
//  3. Command-line flags
//  4. JSON config file
//
// Fields still zero after merging receive the defaults declared in
// defaults.go. The main entry point is [GetStructuredConfig].
package config

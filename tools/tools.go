//go:build tools
// +build tools

// Package tools records the development tooling this repo expects. None of
// these are runtime dependencies, so they stay out of go.mod; install them
// globally with `go install`.
package tools

// golangci-lint - lint aggregator run before every push
//   Install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@v1.64.8
//
// air - live reload while developing the HTTP server locally
//   Install: go install github.com/air-verse/air@v1.63.0

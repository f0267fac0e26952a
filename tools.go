//go:build tools
// +build tools

// Package tools tracks mockgen as a module dependency so that
// `go generate ./...` regenerates mocks/ on a fresh checkout.
package message_lab

import (
	_ "go.uber.org/mock/mockgen"
)

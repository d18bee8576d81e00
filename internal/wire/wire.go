//go:build wireinject
// +build wireinject

package wire

import "github.com/google/wire"

// InitializeRuntime assembles the ambient Runtime (config, logger, git
// client) used by every command. Regenerate wire_gen.go with:
//
//	go run -mod=mod github.com/google/wire/cmd/wire ./internal/wire
func InitializeRuntime() (*Runtime, error) {
	wire.Build(Set)
	return &Runtime{}, nil
}

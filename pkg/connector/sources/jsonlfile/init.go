package jsonlfile

import (
	"github.com/Javier162380/airbyte/pkg/connector/core"
	"github.com/Javier162380/airbyte/pkg/connector/registry"
)

func init() {
	// Register the jsonlfile source connector in the global registry.
	// A duplicate name is a programmer error.
	if err := registry.RegisterSource("jsonlfile", func() core.Source {
		return New()
	}); err != nil {
		panic(err)
	}
}

// Package airbyte is a process-level harness for data-integration
// connectors. It adapts a single command-line invocation (spec, check,
// discover, read or write) into calls against a Source or Destination
// connector speaking the line-delimited JSON protocol: every message on
// stdout is exactly one JSON object per line, and the write command consumes
// the same format from stdin.
//
// # Layout
//
//   - pkg/runner: command dispatch, config loading and validation, and the
//     read/write streaming pipelines. This is the core of the repository.
//   - pkg/protocol: the wire-level message union and its payload types.
//   - pkg/connector/core: the Source/Destination interfaces connectors
//     implement, plus the iterator and consumer lifecycle contracts.
//   - pkg/connector/registry: name-keyed connector factories.
//   - pkg/connector/sources, pkg/connector/destinations: reference
//     connectors reading and writing JSON Lines files.
//   - pkg/jsonl: the JSON Lines scanner and per-line decode combinator.
//
// # Quick start
//
// Drive a registered source end to end:
//
//	source, err := registry.CreateSource("jsonlfile")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r, err := runner.New(runner.SourceRole(source))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = r.Run(ctx, runner.IntegrationConfig{
//	    Command:     runner.CommandRead,
//	    ConfigPath:  "config.json",
//	    CatalogPath: "catalog.json",
//	})
//
// Any returned error must terminate the process with a non-zero status;
// cmd/airbyte wires this up.
package airbyte

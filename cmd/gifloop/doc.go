// Package main hosts the gifloop CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, applies flag overrides
// on top of the file values and hands a frozen config.Run to the pipeline:
// probe the source, export analysis frames, score candidate pairs through the
// result cache, print the best loop and render it as a gif. Cache, config and
// dependency commands expose the same building blocks for inspection.
//
// Keep this package lean: behavior lives in internal packages, commands only
// wire them together and format output.
package main

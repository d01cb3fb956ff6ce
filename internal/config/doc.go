// Package config loads, normalizes, and validates gifloop configuration data.
//
// It supplies defaults matching the command line's historical behaviour,
// expands user paths (including tilde shortcuts), and reads TOML files from
// an explicit path, ~/.config/gifloop/config.toml or ./gifloop.toml. Command
// line flags are applied on top of the loaded Config by the CLI.
//
// Once the source video has been probed, Config.Run freezes the settings into
// an immutable Run value that is passed explicitly to every pipeline stage.
package config

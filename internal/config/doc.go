// Package config loads and validates the argusglue configuration.
//
// Configuration comes from a single yaml file (default
// ~/.config/argusglue/config.yaml) overlaid on built-in defaults, with CLI
// flags applied on top by the cmd layer. Validation runs on the fully merged
// result.
//
// The package also provides a config-file watcher used by `serve` to trigger
// an immediate reconciliation cycle when the file changes.
package config

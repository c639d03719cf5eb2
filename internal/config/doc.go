// Package config parses and validates the bot and forwarder config files.
//
// Files may be JSON or YAML. Both are decoded strictly: unknown keys and
// trailing data are errors. Validation runs at load time so that a bad
// webhook mapping or a dangling channel reference refuses to start the
// process instead of dropping posts at runtime.
package config

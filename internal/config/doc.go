// Package config loads runtime settings for the dealsync CLI.
//
// Values are resolved in three stages, later stages overriding earlier ones:
//
//  1. Compiled-in defaults (LoadDefaults).
//  2. An optional JSON config file given via -c or -config.
//  3. Command-line flags.
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// duration strings ("5m") or integer nanoseconds.
package config

// Package config loads tradeledger settings from a CUE file validated against
// an embedded schema, then applies TRADELEDGER_* environment overrides.
//
// Precedence, lowest first: schema defaults, the config file, the
// environment.
package config

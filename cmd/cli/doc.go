// Package cli assembles the forgehealth command-line application: the Cobra
// root command, configuration loading, logger construction, and registration
// of the provider health subcommands.
package cli

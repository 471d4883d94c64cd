// Package config loads fpm settings.
//
// Sources are layered, later ones winning:
//
//  1. defaults embedded in the binary
//  2. the user file, $XDG_CONFIG_HOME/fpm/config.toml or an explicit path
//  3. FPM_<SECTION>_<KEY> environment variables
//  4. overrides supplied by the caller, usually command flags
package config

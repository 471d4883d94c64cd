// Package testutil provides helpers shared by fpm tests: files in
// temporary directories and an environment isolated from the user's
// configuration.
package testutil

/*
Package gconf implements a configuration store intended to be used as a
global, in-database configuration.

Each extension keeps a single configuration object stored under the
"_c:<package name>" key. The configuration is loaded from the "conf"
section of the genesis file and written once. Later attempts to
initialize it again are rejected, so that a configuration cannot change
for the whole lifetime of the ledger.
*/
package gconf

// Package private and subdirectories have
// no backward compatibility guarantees.
//
// The naming and dialect packages hold the key transforms and
// SQL dialect table used by package camelrow. They are not named
// "internal" so that tools outside the module can use them, but
// their public API is subject to change.
package private

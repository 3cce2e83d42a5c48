// Package staticfactory implements factory.ModuleFactory over an
// in-memory map of pre-supplied sources, used by this module's own test
// suite where no real network or filesystem resolution is wanted.
package staticfactory

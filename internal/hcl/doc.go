// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It parses a `solforge.hcl` project file, evaluates it against a
// small function library and translates the result into config.Model.
package hcl

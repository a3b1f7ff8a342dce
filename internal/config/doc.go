// Package config defines the format-agnostic project model for solforge,
// along with the Loader interface for reading it from a project file.
//
// The `config.Model` is the single source of truth for the pipeline, the
// fetcher and the watcher. Concrete loaders, such as the HCL one, live in
// separate packages.
package config

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// KeyMode selects how collected source files are named for the compiler.
type KeyMode string

const (
	// KeyBasename keys every source by its file name only.
	KeyBasename KeyMode = "basename"
	// KeyRelative keys every source by its slash path relative to SourceDir.
	KeyRelative KeyMode = "relative"
)

// CollisionPolicy selects what happens when two compiled units map to the
// same artifact base path.
type CollisionPolicy string

const (
	CollisionWarn CollisionPolicy = "warn"
	CollisionFail CollisionPolicy = "fail"
)

// Model is the unified, format-agnostic representation of a project.
type Model struct {
	ProjectDir  string // directory holding the project file
	SourceDir   string
	OutDir      string
	KeyMode     KeyMode
	OnCollision CollisionPolicy

	Compiler          CompilerSettings
	Fetch             FetchSettings
	ExternalContracts []ExternalContract
	Notify            *NotifySettings // nil disables notifications
}

// CompilerSettings configures the solc invocation.
type CompilerSettings struct {
	Path       string
	Optimize   bool
	Runs       int
	EVMVersion string
}

// FetchSettings bounds the external artifact download.
type FetchSettings struct {
	Timeout     time.Duration // 0 means no per-request timeout
	Attempts    int
	Backoff     time.Duration
	Concurrency int
}

// ExternalContract describes a pre-built contract whose ABI and bytecode are
// downloaded rather than compiled.
type ExternalContract struct {
	Name   string
	ABIURL string
	BinURL string
}

// NotifySettings points the build notifier at a socket.io endpoint.
type NotifySettings struct {
	URL       string
	Namespace string
	Event     string
}

// DefaultExternalContracts are the Uniswap v1 contracts, which are written in
// Vyper and therefore cannot go through solc.
func DefaultExternalContracts() []ExternalContract {
	return []ExternalContract{
		{
			Name:   "UniswapExchange",
			ABIURL: "https://raw.githubusercontent.com/Uniswap/contracts-vyper/master/abi/uniswap_exchange.json",
			BinURL: "https://raw.githubusercontent.com/Uniswap/contracts-vyper/master/bytecode/exchange.txt",
		},
		{
			Name:   "UniswapFactory",
			ABIURL: "https://raw.githubusercontent.com/Uniswap/contracts-vyper/master/abi/uniswap_factory.json",
			BinURL: "https://raw.githubusercontent.com/Uniswap/contracts-vyper/master/bytecode/factory.txt",
		},
	}
}

// Default returns the model used when no project file exists.
func Default() *Model {
	return &Model{
		ProjectDir:  ".",
		SourceDir:   filepath.Join("src", "contracts"),
		OutDir:      "out",
		KeyMode:     KeyBasename,
		OnCollision: CollisionWarn,
		Compiler: CompilerSettings{
			Path:     "solc",
			Optimize: true,
			Runs:     200,
		},
		Fetch: FetchSettings{
			Attempts:    1,
			Concurrency: 1,
		},
		ExternalContracts: DefaultExternalContracts(),
	}
}

// DefaultPattern is the glob that selects the full source tree. Compiling
// exactly this pattern resets the output directory.
func (m *Model) DefaultPattern() string {
	return filepath.Join(m.SourceDir, "**", "*.sol")
}

// Validate checks the model for values no stage could work with.
func (m *Model) Validate() error {
	var errs []error
	if m.SourceDir == "" {
		errs = append(errs, errors.New("source_dir cannot be empty"))
	}
	if m.OutDir == "" {
		errs = append(errs, errors.New("out_dir cannot be empty"))
	} else if err := m.checkOutDir(); err != nil {
		errs = append(errs, err)
	}
	switch m.KeyMode {
	case KeyBasename, KeyRelative:
	default:
		errs = append(errs, fmt.Errorf("key_mode must be %q or %q, got %q", KeyBasename, KeyRelative, m.KeyMode))
	}
	switch m.OnCollision {
	case CollisionWarn, CollisionFail:
	default:
		errs = append(errs, fmt.Errorf("on_collision must be %q or %q, got %q", CollisionWarn, CollisionFail, m.OnCollision))
	}
	if m.Compiler.Path == "" {
		errs = append(errs, errors.New("compiler path cannot be empty"))
	}
	if m.Compiler.Runs < 0 {
		errs = append(errs, errors.New("compiler runs cannot be negative"))
	}
	if m.Fetch.Attempts < 1 {
		errs = append(errs, errors.New("fetch attempts must be at least 1"))
	}
	if m.Fetch.Concurrency < 1 {
		errs = append(errs, errors.New("fetch concurrency must be at least 1"))
	}
	if m.Fetch.Timeout < 0 || m.Fetch.Backoff < 0 {
		errs = append(errs, errors.New("fetch durations cannot be negative"))
	}

	seen := make(map[string]struct{}, len(m.ExternalContracts))
	for _, ec := range m.ExternalContracts {
		if ec.Name == "" || ec.ABIURL == "" || ec.BinURL == "" {
			errs = append(errs, fmt.Errorf("external contract %q needs a name, abi_url and bin_url", ec.Name))
			continue
		}
		if _, dup := seen[ec.Name]; dup {
			errs = append(errs, fmt.Errorf("external contract %q is declared twice", ec.Name))
		}
		seen[ec.Name] = struct{}{}
	}

	if m.Notify != nil && m.Notify.URL == "" {
		errs = append(errs, errors.New("notify block requires a url"))
	}
	return errors.Join(errs...)
}

// checkOutDir rejects output directories whose reset would delete the
// sources or the project itself.
func (m *Model) checkOutDir() error {
	out, err := filepath.Abs(m.OutDir)
	if err != nil {
		return fmt.Errorf("out_dir %q: %w", m.OutDir, err)
	}
	if out == filepath.VolumeName(out)+string(filepath.Separator) {
		return fmt.Errorf("out_dir %q cannot be the filesystem root", m.OutDir)
	}
	if m.SourceDir != "" {
		if src, err := filepath.Abs(m.SourceDir); err == nil && within(out, src) {
			return fmt.Errorf("out_dir %q must not contain source_dir %q", m.OutDir, m.SourceDir)
		}
	}
	if m.ProjectDir != "" {
		if project, err := filepath.Abs(m.ProjectDir); err == nil && within(out, project) {
			return fmt.Errorf("out_dir %q must not contain the project directory %q", m.OutDir, m.ProjectDir)
		}
	}
	return nil
}

// within reports whether p is dir or lies below it.
func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	return err == nil && (rel == "." || filepath.IsLocal(rel))
}

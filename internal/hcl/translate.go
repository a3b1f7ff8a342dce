package hcl

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/specialistvlad/solforge/internal/config"
)

// translate overlays the decoded file onto config.Default(). Relative
// directories are anchored at the project file's directory.
func translate(root *fileRoot, projectDir string) (*config.Model, error) {
	m := config.Default()
	m.ProjectDir = projectDir
	m.SourceDir = filepath.Join(projectDir, m.SourceDir)
	m.OutDir = filepath.Join(projectDir, m.OutDir)

	if root.SourceDir != nil {
		m.SourceDir = anchor(projectDir, *root.SourceDir)
	}
	if root.OutDir != nil {
		m.OutDir = anchor(projectDir, *root.OutDir)
	}
	if root.KeyMode != nil {
		m.KeyMode = config.KeyMode(*root.KeyMode)
	}
	if root.OnCollision != nil {
		m.OnCollision = config.CollisionPolicy(*root.OnCollision)
	}

	if c := root.Compiler; c != nil {
		if c.Path != nil {
			m.Compiler.Path = *c.Path
		}
		if c.Optimize != nil {
			m.Compiler.Optimize = *c.Optimize
		}
		if c.Runs != nil {
			m.Compiler.Runs = *c.Runs
		}
		if c.EVMVersion != nil {
			m.Compiler.EVMVersion = *c.EVMVersion
		}
	}

	if f := root.Fetch; f != nil {
		var err error
		if f.Timeout != nil {
			if m.Fetch.Timeout, err = parseDuration("fetch.timeout", *f.Timeout); err != nil {
				return nil, err
			}
		}
		if f.Backoff != nil {
			if m.Fetch.Backoff, err = parseDuration("fetch.backoff", *f.Backoff); err != nil {
				return nil, err
			}
		}
		if f.Attempts != nil {
			m.Fetch.Attempts = *f.Attempts
		}
		if f.Concurrency != nil {
			m.Fetch.Concurrency = *f.Concurrency
		}
	}

	switch {
	case len(root.ExternalContracts) > 0:
		m.ExternalContracts = make([]config.ExternalContract, 0, len(root.ExternalContracts))
		for _, ec := range root.ExternalContracts {
			m.ExternalContracts = append(m.ExternalContracts, config.ExternalContract{
				Name:   ec.Name,
				ABIURL: ec.ABIURL,
				BinURL: ec.BinURL,
			})
		}
	case root.DefaultExternalContracts != nil && !*root.DefaultExternalContracts:
		m.ExternalContracts = nil
	}

	if n := root.Notify; n != nil {
		m.Notify = &config.NotifySettings{URL: n.URL, Namespace: "/", Event: "solforge:build"}
		if n.Namespace != nil {
			m.Notify.Namespace = *n.Namespace
		}
		if n.Event != nil {
			m.Notify.Event = *n.Event
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func anchor(projectDir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(projectDir, p)
}

func parseDuration(attr, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", attr, err)
	}
	return d, nil
}

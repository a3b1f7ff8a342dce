package hcl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/solforge/internal/config"
	"github.com/specialistvlad/solforge/internal/ctxlog"
)

// DefaultFileName is the project file looked up when none is given.
const DefaultFileName = "solforge.hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL project file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the project file at path. A missing file is not an error: the
// default model is returned with relative paths left as they are.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	if path == "" {
		path = DefaultFileName
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Project file not found, using defaults.", "path", path)
			return config.Default(), nil
		}
		return nil, fmt.Errorf("error accessing project file %s: %w", path, err)
	}

	projectDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory for %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, newEvalContext(projectDir), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	model, err := translate(&root, projectDir)
	if err != nil {
		return nil, fmt.Errorf("invalid project file %s: %w", path, err)
	}

	logger.Debug("Project file loaded.",
		"path", path,
		"source_dir", model.SourceDir,
		"out_dir", model.OutDir,
		"external_contracts", len(model.ExternalContracts),
		"notify", model.Notify != nil,
	)
	return model, nil
}

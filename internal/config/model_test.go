package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	m := Default()

	require.NoError(t, m.Validate())
	assert.Equal(t, filepath.Join("src", "contracts", "**", "*.sol"), m.DefaultPattern())
	assert.Len(t, m.ExternalContracts, 2)
	assert.True(t, m.Compiler.Optimize)
	assert.Equal(t, 1, m.Fetch.Attempts, "no retry unless configured")
	assert.Zero(t, m.Fetch.Timeout, "no timeout unless configured")
}

func TestValidate_OutDirMustNotSwallowSourcesOrProject(t *testing.T) {
	project := t.TempDir()
	testCases := []struct {
		name    string
		outDir  string
		wantErr string
	}{
		{name: "project directory itself", outDir: project, wantErr: "must not contain source_dir"},
		{name: "source directory", outDir: filepath.Join(project, "src", "contracts"), wantErr: "must not contain source_dir"},
		{name: "parent of the sources", outDir: filepath.Join(project, "src"), wantErr: "must not contain source_dir"},
		{name: "parent of the project", outDir: filepath.Dir(project), wantErr: "must not contain"},
		{name: "filesystem root", outDir: string(filepath.Separator), wantErr: "filesystem root"},
		{name: "sibling directory", outDir: filepath.Join(project, "out")},
		{name: "inside the sources", outDir: filepath.Join(project, "src", "contracts", "build")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := Default()
			m.ProjectDir = project
			m.SourceDir = filepath.Join(project, "src", "contracts")
			m.OutDir = tc.outDir

			err := m.Validate()

			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestValidate_OutDirMustNotContainProjectFile(t *testing.T) {
	project := t.TempDir()
	m := Default()
	m.ProjectDir = project
	m.SourceDir = filepath.Join(t.TempDir(), "contracts")
	m.OutDir = project

	require.ErrorContains(t, m.Validate(), "must not contain the project directory")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	m := Default()
	m.SourceDir = ""
	m.KeyMode = "flat"
	m.OnCollision = "ignore"
	m.Fetch.Attempts = 0
	m.ExternalContracts = append(m.ExternalContracts,
		ExternalContract{Name: "UniswapFactory", ABIURL: "a", BinURL: "b"},
		ExternalContract{Name: "NoURLs"},
	)
	m.Notify = &NotifySettings{}

	err := m.Validate()
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		"source_dir cannot be empty",
		"key_mode must be",
		"on_collision must be",
		"fetch attempts must be at least 1",
		`external contract "UniswapFactory" is declared twice`,
		`external contract "NoURLs" needs`,
		"notify block requires a url",
	} {
		assert.Contains(t, msg, want)
	}
}

package hcl

// fileRoot decodes every top-level attribute and block of a project file.
// Pointer fields distinguish "absent" from the zero value so that absent
// settings fall back to config.Default().
type fileRoot struct {
	SourceDir                *string `hcl:"source_dir,optional"`
	OutDir                   *string `hcl:"out_dir,optional"`
	KeyMode                  *string `hcl:"key_mode,optional"`
	OnCollision              *string `hcl:"on_collision,optional"`
	DefaultExternalContracts *bool   `hcl:"default_external_contracts,optional"`

	Compiler          *compilerBlock   `hcl:"compiler,block"`
	Fetch             *fetchBlock      `hcl:"fetch,block"`
	ExternalContracts []*externalBlock `hcl:"external_contract,block"`
	Notify            *notifyBlock     `hcl:"notify,block"`
}

type compilerBlock struct {
	Path       *string `hcl:"path,optional"`
	Optimize   *bool   `hcl:"optimize,optional"`
	Runs       *int    `hcl:"runs,optional"`
	EVMVersion *string `hcl:"evm_version,optional"`
}

type fetchBlock struct {
	Timeout     *string `hcl:"timeout,optional"`
	Attempts    *int    `hcl:"attempts,optional"`
	Backoff     *string `hcl:"backoff,optional"`
	Concurrency *int    `hcl:"concurrency,optional"`
}

type externalBlock struct {
	Name   string `hcl:"name,label"`
	ABIURL string `hcl:"abi_url"`
	BinURL string `hcl:"bin_url"`
}

type notifyBlock struct {
	URL       string  `hcl:"url"`
	Namespace *string `hcl:"namespace,optional"`
	Event     *string `hcl:"event,optional"`
}

package extension

import (
	"github.com/go-playground/validator/v10"

	"github.com/clinekit/clinekit/pkg/exterr"
	"github.com/clinekit/clinekit/pkg/mcpcheck"
)

// UpdateStrategy controls how the extension core is kept current.
type UpdateStrategy string

const (
	UpdateSubmodule UpdateStrategy = "submodule"
	UpdateManual    UpdateStrategy = "manual"
)

// UpdateStrategies lists the accepted strategies.
var UpdateStrategies = []UpdateStrategy{UpdateSubmodule, UpdateManual}

// DefaultInstructionsPath is where custom instructions live by default.
const DefaultInstructionsPath = "../prompts/custom-instructions.md"

// ExtensionConfig is the extension's own configuration document.
type ExtensionConfig struct {
	MCP      MCPSettings     `json:"mcp" yaml:"mcp"`
	Prompts  PromptSettings  `json:"prompts" yaml:"prompts"`
	Settings GeneralSettings `json:"settings" yaml:"settings"`
}

type MCPSettings struct {
	Servers map[string]mcpcheck.ServerConfig `json:"servers" yaml:"servers" validate:"dive"`
}

type PromptSettings struct {
	CustomInstructions CustomInstructions `json:"customInstructions" yaml:"custom_instructions"`
}

type CustomInstructions struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"path" yaml:"path" validate:"required_if=Enabled true"`
}

type GeneralSettings struct {
	Core CoreSettings `json:"core" yaml:"core"`
}

type CoreSettings struct {
	UpdateStrategy UpdateStrategy `json:"updateStrategy" yaml:"update_strategy" validate:"oneof=submodule manual"`
	Version        string         `json:"version" yaml:"version" validate:"required,semver"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() ExtensionConfig {
	return ExtensionConfig{
		MCP: MCPSettings{Servers: map[string]mcpcheck.ServerConfig{}},
		Prompts: PromptSettings{
			CustomInstructions: CustomInstructions{Enabled: true, Path: DefaultInstructionsPath},
		},
		Settings: GeneralSettings{
			Core: CoreSettings{UpdateStrategy: UpdateManual, Version: CoreVersion},
		},
	}
}

var validate = validator.New()

// Validate checks the configuration, returning an INVALID_CONFIG error.
func (c ExtensionConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return exterr.New(exterr.CodeInvalidConfig, "extension config validation failed", err)
	}
	return nil
}

// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under ~/.arielle.
//
// Adapters:
//   - ConfigStore: TOML configuration with dot-addressed keys
//   - PromptStore: user-editable prompt templates with embedded defaults
package file

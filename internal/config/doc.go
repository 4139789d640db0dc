// Package config provides user configuration management for reservectl.
//
// Settings live in a YAML file at an OS-specific location:
//   - Linux: $XDG_CONFIG_HOME/reservectl/config.yaml or $HOME/.config/reservectl/config.yaml
//   - macOS: $HOME/.config/reservectl/config.yaml
//   - Windows: %LOCALAPPDATA%\reservectl\config.yaml
//
// # Security
//
// IMPORTANT: The API token is NEVER stored in the settings file. Token reads
// RESERVECTL_API_TOKEN (or FOODICS_API_TOKEN), which LoadDotEnv can populate
// from a .env file.
//
// # Usage Example
//
//	_ = config.LoadDotEnv()
//
//	settings, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	token, err := config.Token()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client := branches.NewClient(settings.ClientConfig(token, "reservectl/1.0"))
//
// # Thread Safety
//
// Load uses sync.Once. Save is serialised by a mutex and writes atomically.
package config

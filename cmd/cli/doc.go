// Package cli constructs the repo-audit command-line interface. It wires the
// audit command as the Cobra root, loads layered configuration through Viper,
// and builds the zap logger shared by the audit services.
package cli

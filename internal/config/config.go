// Package config loads engine defaults from a flat set of environment
// variables: the workflow deadline, the administrator requirement, the
// safe-mode (rollback-on-failure) default, and the audit journal
// directory.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the defaults applied to a workflow run unless a manifest
// overrides them.
type Config struct {
	// GlobalDeadline bounds an entire Install/Uninstall/Repair call when
	// a manifest does not set its own WorkflowOptions.Deadline.
	GlobalDeadline time.Duration

	// RequireAdministrator is the default for WorkflowOptions when a
	// manifest leaves it unset.
	RequireAdministrator bool

	// SafeMode, when true, defaults RollbackOnFailure to true for any
	// manifest that doesn't say otherwise.
	SafeMode bool

	// AuditDir is where internal/audit stores its journal database.
	AuditDir string
}

const (
	envDeadline     = "TXINSTALL_DEADLINE"
	envRequireAdmin = "TXINSTALL_REQUIRE_ADMIN"
	envSafeMode     = "TXINSTALL_SAFE_MODE"
	envAuditDir     = "TXINSTALL_AUDIT_DIR"
)

// Load reads Config from the environment, falling back to conservative
// defaults: no deadline override (the workflow's own default deadline
// applies), no administrator requirement, safe mode (i.e.
// rollback-on-failure) on, and an audit journal under the user's home
// directory.
func Load() *Config {
	cfg := &Config{
		GlobalDeadline:       0,
		RequireAdministrator: false,
		SafeMode:             true,
		AuditDir:             "",
	}

	if val := os.Getenv(envDeadline); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.GlobalDeadline = d
		}
	}

	if os.Getenv(envRequireAdmin) != "" {
		cfg.RequireAdministrator = true
	}

	if val := os.Getenv(envSafeMode); val != "" {
		cfg.SafeMode = val != "0" && val != "false"
	}

	if val := os.Getenv(envAuditDir); val != "" {
		cfg.AuditDir = val
	} else {
		home, _ := os.UserHomeDir()
		cfg.AuditDir = filepath.Join(home, ".txinstall")
	}

	return cfg
}

// Current is the process-wide Config, loaded once at package init.
var Current = Load()

// Package script renders the PowerShell installer the Install page exports.
package script

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	krnerrors "github.com/terassyi/krn08/internal/errors"
)

const (
	// DefaultFileName is the name the script is saved under.
	DefaultFileName = "install_packages.ps1"

	newline = "\r\n"
)

var header = []string{
	"# KRN-08 Auto-Generated Installer Script",
	"# Checks for Winget and installs selected packages",
	"",
	`Write-Host "Checking for Winget..." -ForegroundColor Cyan`,
	"if (-not (Get-Command winget -ErrorAction SilentlyContinue)) {",
	`    Write-Error "Winget not found! Please update App Installer from Microsoft Store."`,
	"    exit 1",
	"}",
	"",
	`Write-Host "Starting Installation..." -ForegroundColor Green`,
}

var footer = []string{
	"",
	`Write-Host "All tasks completed." -ForegroundColor Green`,
	"Pause",
}

// InstallLine returns the winget invocation for one package.
func InstallLine(id string) string {
	return fmt.Sprintf("winget install -e --id %s --accept-package-agreements --accept-source-agreements", id)
}

// Build returns the script installing ids in order, with CRLF line endings
// and no trailing newline.
func Build(ids []string) string {
	lines := make([]string, 0, len(header)+len(ids)+len(footer))
	lines = append(lines, header...)
	for _, id := range ids {
		lines = append(lines, InstallLine(id))
	}
	lines = append(lines, footer...)
	return strings.Join(lines, newline)
}

// Write saves the script for ids to path.
func Write(path string, ids []string) error {
	if len(ids) == 0 {
		return krnerrors.NewValidationError("script", "packages", "at least one package", "none")
	}

	if err := os.WriteFile(path, []byte(Build(ids)), 0644); err != nil {
		return krnerrors.Wrap(krnerrors.CategoryExport, "failed to write installer script", err).
			WithCode(krnerrors.CodeExportFailed).
			WithDetail("path", path)
	}

	slog.Debug("installer script written", "path", path, "packages", len(ids))
	return nil
}

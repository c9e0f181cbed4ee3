package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"golang.org/x/mod/module"

	"github.com/go-drift/odometer/cmd/odometer/internal/templates"
)

func init() {
	RegisterCommand(&Command{
		Name:  "init",
		Short: "Create a new odometer host project",
		Long: `Create a new odometer host project in a new directory.

This command creates:
  - A new directory at the specified path
  - go.mod with the specified module path
  - main.go with a terminal host loop
  - odometer.yaml with a starter configuration for the CLI commands

The project name is derived from the directory basename. The module path
defaults to the project name if not specified; a supplied module path is
checked against Go module path rules before anything is written.

Examples:
  odometer init counter
  odometer init counter github.com/username/counter
  odometer init ./demos/counter`,
		Usage: "odometer init <directory> [module-path]",
		Run:   runInit,
	})
}

// initTemplateData contains the data for init template substitution.
type initTemplateData struct {
	ModulePath string
}

// runInit creates a new host project. The first argument is the directory
// to create; the project name comes from its basename. An optional second
// argument overrides the Go module path.
func runInit(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("directory is required\n\nUsage: odometer init <directory> [module-path]")
	}

	raw := args[0]
	if strings.HasPrefix(raw, "~") {
		return fmt.Errorf("tilde (~) is not expanded by odometer; use an absolute path or $HOME instead")
	}

	dir := filepath.Clean(raw)

	// Validate directory path before deriving anything from it
	if err := validateDirectory(dir); err != nil {
		return err
	}

	projectName := filepath.Base(dir)
	if err := validateProjectName(projectName); err != nil {
		return fmt.Errorf("invalid project name %q (derived from directory basename): %w", projectName, err)
	}

	modulePath, err := moduleTargetPath(args, projectName)
	if err != nil {
		return err
	}

	if err := scaffoldProject(dir, modulePath); err != nil {
		return err
	}

	fmt.Println("  Running go mod tidy...")
	tidyCmd := exec.Command("go", "mod", "tidy")
	tidyCmd.Dir = dir
	tidyCmd.Stdout = os.Stdout
	tidyCmd.Stderr = os.Stderr
	if err := tidyCmd.Run(); err != nil {
		fmt.Println("  Warning: go mod tidy failed")
	}

	fmt.Println()
	fmt.Printf("Project created successfully!\n\n")
	fmt.Printf("Next steps:\n")
	fmt.Printf("  cd %s\n", dir)
	fmt.Printf("  go run .             # Watch the counter roll\n")
	fmt.Printf("  odometer play 0 42   # Uses the project's odometer.yaml\n")

	return nil
}

// moduleTargetPath returns the module path for a new project: the second
// CLI argument when present (validated against Go module path rules), else
// the project name for a local-only module.
func moduleTargetPath(args []string, projectName string) (string, error) {
	if len(args) < 2 {
		return projectName, nil
	}

	modulePath := args[1]
	if modulePath == "" {
		return "", fmt.Errorf("module path cannot be empty")
	}
	if err := module.CheckPath(modulePath); err != nil {
		return "", fmt.Errorf("invalid module path %q: %w", modulePath, err)
	}
	return modulePath, nil
}

// scaffoldProject creates the project directory and writes the template
// files. It touches nothing but the filesystem, so tests can call it
// without network access or a Go toolchain.
func scaffoldProject(dir, modulePath string) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}

	fmt.Printf("Creating new odometer project: %s\n", filepath.Base(dir))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data := initTemplateData{
		ModulePath: modulePath,
	}

	initFiles := []struct {
		templatePath string
		destName     string
	}{
		{"init/go.mod.tmpl", "go.mod"},
		{"init/main.go.tmpl", "main.go"},
		{"init/odometer.yaml.tmpl", "odometer.yaml"},
	}

	for _, f := range initFiles {
		if err := writeInitTemplate(dir, f.templatePath, f.destName, data); err != nil {
			safeRemoveAll(dir)
			return err
		}
		fmt.Printf("  Created %s\n", f.destName)
	}

	return nil
}

func writeInitTemplate(projectDir, templatePath, destName string, data initTemplateData) error {
	content, err := templates.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	tmpl, err := template.New(destName).Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", templatePath, err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templatePath, err)
	}

	destPath := filepath.Join(projectDir, destName)
	if err := os.WriteFile(destPath, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", destName, err)
	}

	return nil
}

// validateDirectory rejects directory paths that would be dangerous to
// create or clean up: filesystem roots, the current or parent directory,
// and root-level absolute paths such as /etc.
func validateDirectory(dir string) error {
	// filepath.Clean never produces "", but direct callers might; "/" is
	// listed explicitly because isVolumeRoot matches the platform
	// separator and "/" still names the drive root on Windows.
	switch dir {
	case "", "/", ".", "..":
		return fmt.Errorf("directory %q is not a valid project location", dir)
	}
	if isVolumeRoot(dir) {
		return fmt.Errorf("directory %q is not a valid project location", dir)
	}
	if filepath.IsAbs(dir) && isVolumeRoot(filepath.Dir(dir)) {
		return fmt.Errorf("refusing to create project at root-level path %q", dir)
	}
	return nil
}

// isVolumeRoot reports whether dir is a filesystem root: "/" on Unix,
// drive roots like "C:\" and the bare "\" on Windows.
func isVolumeRoot(dir string) bool {
	return dir == filepath.VolumeName(dir)+string(filepath.Separator)
}

// safeRemoveAll removes a directory only when the path passes
// validateDirectory. It no-ops for dangerous paths instead of returning an
// error, since it runs on cleanup paths where the original error matters
// more.
func safeRemoveAll(dir string) {
	if validateDirectory(dir) != nil {
		return
	}
	os.RemoveAll(dir)
}

var validProjectName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// validateProjectName checks that a project name derived from the directory
// basename starts with a letter and contains only letters, digits,
// underscores, and hyphens.
func validateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	// Redundant with the regexp, but these produce clearer messages for
	// the two most common mistakes (hidden dirs, flag-like names).
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("project name cannot start with a dot")
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("project name cannot start with a hyphen")
	}
	if !validProjectName.MatchString(name) {
		return fmt.Errorf("project name must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}
	return nil
}

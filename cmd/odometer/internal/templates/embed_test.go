package templates

import (
	"strings"
	"testing"
	"text/template"

	"gopkg.in/yaml.v3"
)

func TestInitFilesComplete(t *testing.T) {
	files, err := InitFiles()
	if err != nil {
		t.Fatalf("InitFiles: %v", err)
	}

	want := map[string]bool{
		"init/go.mod.tmpl":        false,
		"init/main.go.tmpl":       false,
		"init/odometer.yaml.tmpl": false,
	}
	for _, f := range files {
		if _, ok := want[f]; !ok {
			t.Errorf("unexpected init template %q", f)
			continue
		}
		want[f] = true
	}
	for f, seen := range want {
		if !seen {
			t.Errorf("missing init template %q", f)
		}
	}
}

func TestInitTemplatesParse(t *testing.T) {
	files, err := InitFiles()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		content, err := ReadFile(f)
		if err != nil {
			t.Errorf("ReadFile(%s): %v", f, err)
			continue
		}
		if _, err := template.New(f).Parse(string(content)); err != nil {
			t.Errorf("template %s does not parse: %v", f, err)
		}
	}
}

func TestGoModTemplateSubstitutesModulePath(t *testing.T) {
	content, err := ReadFile("init/go.mod.tmpl")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "module {{.ModulePath}}") {
		t.Error("expected module path placeholder in init/go.mod.tmpl")
	}
}

func TestMainTemplateDrivesHostLoop(t *testing.T) {
	content, err := ReadFile("init/main.go.tmpl")
	if err != nil {
		t.Fatal(err)
	}

	src := string(content)
	for _, call := range []string{"odometer.NewController", "odometer.NewEngine", "eng.Attach", "animation.StepTickers"} {
		if !strings.Contains(src, call) {
			t.Errorf("expected %s in init/main.go.tmpl", call)
		}
	}

	// The host must attach before stepping frames, or the first update is
	// never rendered.
	attach := strings.Index(src, "eng.Attach")
	step := strings.Index(src, "animation.StepTickers")
	if attach > step {
		t.Errorf("Attach appears after StepTickers (attach=%d, step=%d)", attach, step)
	}
}

func TestYamlTemplateIsValidYaml(t *testing.T) {
	content, err := ReadFile("init/odometer.yaml.tmpl")
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		t.Fatalf("scaffolded odometer.yaml does not parse: %v", err)
	}
	if _, ok := doc["format"]; !ok {
		t.Error("expected a format section in the scaffolded odometer.yaml")
	}
}

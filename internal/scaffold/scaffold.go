// Package scaffold writes C++ source skeletons from embedded templates:
// classes (header/implementation or module flavored), standalone module
// units, and whole project trees. The preset engine does not depend on any
// of this output beyond the CMakePresets.json a new project carries.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// ValidIdentifier reports whether name is usable as a C++ identifier and a
// CMake/Ninja target name: a letter first, then letters, digits, or
// underscores.
func ValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case r == '_' || r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Class writes include/<name>.hpp and src/<name>.cpp under dir and returns
// the created paths.
func Class(dir, name string) ([]string, error) {
	header, err := render(dir, "class.hpp.tmpl", filepath.Join("include", name+".hpp"), classContext(name))
	if err != nil {
		return nil, err
	}
	impl, err := render(dir, "class.cpp.tmpl", filepath.Join("src", name+".cpp"), classContext(name))
	if err != nil {
		return nil, err
	}
	return []string{header, impl}, nil
}

// ClassModule writes a module-flavored class unit to modules/<name>.ixx.
func ClassModule(dir, name string) ([]string, error) {
	path, err := render(dir, "class.ixx.tmpl", filepath.Join("modules", name+".ixx"), map[string]string{
		"ModuleName": name,
		"ClassName":  name,
	})
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// Module writes a module implementation unit to src/<name>.ixx.
func Module(dir, name string) ([]string, error) {
	path, err := render(dir, "module.ixx.tmpl", filepath.Join("src", name+".ixx"), map[string]string{
		"ModuleName": name,
	})
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// Project creates a new project tree named after the project under parentDir
// and returns the project directory. prod selects a Release default build
// type instead of Debug.
func Project(parentDir, name string, prod bool) (string, error) {
	buildType := "Debug"
	if prod {
		buildType = "Release"
	}
	projectDir := filepath.Join(parentDir, name)
	for _, sub := range []string{"src", "include"} {
		if err := os.MkdirAll(filepath.Join(projectDir, sub), 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", filepath.Join(projectDir, sub), err)
		}
	}
	ctx := map[string]string{
		"Name":      name,
		"BuildType": buildType,
	}
	files := []struct {
		tmpl string
		out  string
	}{
		{"CMakeLists.txt.tmpl", "CMakeLists.txt"},
		{"CMakePresets.json.tmpl", "CMakePresets.json"},
		{"main.cpp.tmpl", filepath.Join("src", "main.cpp")},
		{"gitignore.tmpl", ".gitignore"},
		{"clang-format.tmpl", ".clang-format"},
	}
	for _, f := range files {
		if _, err := render(projectDir, f.tmpl, f.out, ctx); err != nil {
			return "", err
		}
	}
	return projectDir, nil
}

func classContext(name string) map[string]string {
	return map[string]string{"ClassName": name}
}

func render(dir, tmplName, relOut string, ctx map[string]string) (string, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/"+tmplName)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", tmplName, err)
	}
	outPath := filepath.Join(dir, relOut)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Dir(outPath), err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()
	if err := tmpl.Execute(f, ctx); err != nil {
		return "", fmt.Errorf("render %s: %w", tmplName, err)
	}
	return outPath, nil
}

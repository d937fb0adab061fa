package envfile

import (
	"encoding/base64"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/soradev/envlens/internal/analyzer"
	"github.com/soradev/envlens/internal/secrets"
)

// fileType identifies which parser handles a definition file.
type fileType string

const (
	typeDotenv  fileType = "env"
	typeEnvrc   fileType = "envrc"
	typeCompose fileType = "docker-compose"
	typeK8s     fileType = "k8s"
	typeSystemd fileType = "systemd"
	typeShell   fileType = "shell"
)

// detectFileType determines a definition file's format from its name.
func detectFileType(path string) fileType {
	filename := filepath.Base(path)

	switch {
	case filename == ".envrc":
		return typeEnvrc
	case strings.HasPrefix(filename, ".env") || strings.HasPrefix(filename, "env."):
		return typeDotenv
	case strings.HasPrefix(filename, "docker-compose."), filename == "compose.yml", filename == "compose.yaml":
		return typeCompose
	case strings.HasSuffix(filename, ".service"):
		return typeSystemd
	case strings.HasSuffix(filename, ".sh"), strings.HasSuffix(filename, ".bash"):
		return typeShell
	}

	if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		if strings.Contains(filename, "configmap") || strings.Contains(filename, "secret") {
			return typeK8s
		}
	}
	return typeDotenv
}

var exportRegexp = regexp.MustCompile(`^\s*export\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)$`)

// parseExports extracts "export NAME=value" assignments from shell-like
// content (.envrc files and plain shell scripts).
func parseExports(content []byte, file string) ([]analyzer.DefinedVariable, []analyzer.FileError) {
	var vars []analyzer.DefinedVariable
	index := make(map[string]int)

	for i, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := exportRegexp.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, value := m[1], unquote(m[2])
		v := analyzer.DefinedVariable{
			Name:   name,
			Value:  value,
			File:   file,
			Line:   i + 1,
			Secret: secrets.Looks(name, value),
		}
		if at, ok := index[name]; ok {
			vars[at] = v
		} else {
			index[name] = len(vars)
			vars = append(vars, v)
		}
	}
	return vars, nil
}

var systemdEnvRegexp = regexp.MustCompile(`^\s*Environment\s*=\s*(.+)$`)

// parseSystemd extracts Environment= assignments from systemd unit files.
func parseSystemd(content []byte, file string) ([]analyzer.DefinedVariable, []analyzer.FileError) {
	var vars []analyzer.DefinedVariable
	index := make(map[string]int)

	for i, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := systemdEnvRegexp.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		assignment := unquote(m[1])
		name, value, ok := strings.Cut(assignment, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if !nameRegexp.MatchString(name) {
			continue
		}
		value = strings.TrimSpace(value)
		v := analyzer.DefinedVariable{
			Name:   name,
			Value:  value,
			File:   file,
			Line:   i + 1,
			Secret: secrets.Looks(name, value),
		}
		if at, ok := index[name]; ok {
			vars[at] = v
		} else {
			index[name] = len(vars)
			vars = append(vars, v)
		}
	}
	return vars, nil
}

// parseCompose extracts per-service environment blocks from a
// docker-compose file. Both mapping and "K=V" list styles are supported.
func parseCompose(content []byte, file string) ([]analyzer.DefinedVariable, []analyzer.FileError) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		// Not valid YAML; not fatal, the file is just skipped.
		return nil, []analyzer.FileError{{File: file, Message: "invalid YAML: " + err.Error()}}
	}
	doc := documentRoot(&root)
	if doc == nil {
		return nil, nil
	}

	var vars []analyzer.DefinedVariable
	services := mappingValue(doc, "services")
	if services == nil || services.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 1; i < len(services.Content); i += 2 {
		service := services.Content[i]
		env := mappingValue(service, "environment")
		if env == nil {
			continue
		}
		switch env.Kind {
		case yaml.MappingNode:
			for j := 0; j+1 < len(env.Content); j += 2 {
				key, val := env.Content[j], env.Content[j+1]
				vars = appendDefined(vars, key.Value, val.Value, file, key.Line, false)
			}
		case yaml.SequenceNode:
			for _, item := range env.Content {
				name, value, ok := strings.Cut(item.Value, "=")
				if !ok {
					name, value = item.Value, ""
				}
				vars = appendDefined(vars, strings.TrimSpace(name), strings.TrimSpace(value), file, item.Line, false)
			}
		}
	}
	return vars, nil
}

// parseK8s extracts data entries from Kubernetes ConfigMap and Secret
// manifests. Secret values are base64-decoded and always flagged secret.
func parseK8s(content []byte, file string) ([]analyzer.DefinedVariable, []analyzer.FileError) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, []analyzer.FileError{{File: file, Message: "invalid YAML: " + err.Error()}}
	}
	doc := documentRoot(&root)
	if doc == nil {
		return nil, nil
	}

	kindNode := mappingValue(doc, "kind")
	if kindNode == nil {
		return nil, nil
	}
	kind := kindNode.Value
	if kind != "ConfigMap" && kind != "Secret" {
		return nil, nil
	}

	data := mappingValue(doc, "data")
	if data == nil || data.Kind != yaml.MappingNode {
		return nil, nil
	}

	var vars []analyzer.DefinedVariable
	for i := 0; i+1 < len(data.Content); i += 2 {
		key, val := data.Content[i], data.Content[i+1]
		value := val.Value
		if kind == "Secret" {
			if decoded, err := base64.StdEncoding.DecodeString(value); err == nil {
				value = string(decoded)
			}
		}
		vars = appendDefined(vars, key.Value, value, file, key.Line, kind == "Secret")
	}
	return vars, nil
}

func appendDefined(vars []analyzer.DefinedVariable, name, value, file string, line int, forceSecret bool) []analyzer.DefinedVariable {
	if !nameRegexp.MatchString(name) {
		return vars
	}
	return append(vars, analyzer.DefinedVariable{
		Name:   name,
		Value:  value,
		File:   file,
		Line:   line,
		Secret: forceSecret || secrets.Looks(name, value),
	})
}

// documentRoot unwraps the document node yaml.Unmarshal produces.
func documentRoot(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	if n.Kind == yaml.MappingNode {
		return n
	}
	return nil
}

// mappingValue returns the value node for a key in a mapping node.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

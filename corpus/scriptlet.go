package corpus

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// bundleFrontMatter is the optional YAML header of a scriptlet markdown
// bundle (§4.2 "Scriptlet bundles").
type bundleFrontMatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Icon        string `yaml:"icon"`
}

var fencedBlockRE = regexp.MustCompile("(?s)```([a-zA-Z0-9_+-]+)\\n(.*?)```")

// parseBundle splits a markdown bundle into one Script per fenced code
// block with a language tag. A malformed front-matter block is non-fatal:
// the bundle loads without it and a warning is returned for the caller to
// surface to the user (§4.2: "one-line user-facing warning").
func parseBundle(bundlePath, content string) ([]Script, string) {
	body := content
	var front bundleFrontMatter
	var warning string

	if strings.HasPrefix(strings.TrimLeft(content, "\n"), "---") {
		trimmed := strings.TrimLeft(content, "\n")
		rest := trimmed[3:]
		if end := strings.Index(rest, "\n---"); end >= 0 {
			yamlBlock := rest[:end]
			if err := yaml.Unmarshal([]byte(yamlBlock), &front); err != nil {
				warning = fmt.Sprintf("bundle %s: ignoring malformed front-matter: %v", bundlePath, err)
				front = bundleFrontMatter{}
			} else {
				afterDashes := rest[end+4:]
				body = strings.TrimPrefix(afterDashes, "\n")
			}
		}
	}

	matches := fencedBlockRE.FindAllStringSubmatch(body, -1)
	scripts := make([]Script, 0, len(matches))
	for i, m := range matches {
		lang := m[1]
		code := strings.TrimRight(m[2], "\n")
		name := front.Name
		if name == "" {
			name = nameFromPath(bundlePath)
		}
		if len(matches) > 1 {
			name = fmt.Sprintf("%s #%d", name, i+1)
		}
		scripts = append(scripts, Script{
			Path:        fmt.Sprintf("%s#%d", bundlePath, i),
			Name:        name,
			Description: front.Description,
			Variant:     VariantScriptlet,
			BundlePath:  bundlePath,
			Interpreter: lang,
			Body:        code,
		})
	}
	for i := range scripts {
		scripts[i].Section = scripts[i].DisplaySection()
	}
	return scripts, warning
}

// IsBundle reports whether a file extension marks it as a scriptlet bundle
// rather than a directly executable script.
func IsBundle(path string) bool {
	return strings.HasSuffix(path, ".md") || strings.HasSuffix(path, ".markdown")
}

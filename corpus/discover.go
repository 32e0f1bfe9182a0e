package corpus

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Logger is the narrow slice of obs.Logger the corpus package needs,
// kept as an interface here so corpus has no import dependency on obs.
type Logger interface {
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// DiscoverOptions controls the directory walk (§4.2 discovery algorithm).
type DiscoverOptions struct {
	Root       string
	IgnoreList []string
	HeadBytes  int
	Logger     Logger
}

// Discover walks Root recursively, skipping hidden files and anything
// matching IgnoreList, and returns a deterministically (path-)sorted slice
// of Scripts (§3 ScriptCorpus invariant: "total-order iteration is
// deterministic").
func Discover(opts DiscoverOptions) ([]Script, error) {
	if opts.HeadBytes <= 0 {
		opts.HeadBytes = DefaultHeadBytes
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}

	var scripts []Script
	err := filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entry: skip it but keep walking siblings.
			opts.Logger.Warnf("corpus: skipping %s: %v", path, err)
			return nil
		}
		name := d.Name()
		if path != opts.Root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if matchesIgnore(path, opts.Root, opts.IgnoreList) {
				return filepath.SkipDir
			}
			return nil
		}
		if matchesIgnore(path, opts.Root, opts.IgnoreList) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			opts.Logger.Warnf("corpus: stat %s: %v", path, err)
			return nil
		}

		if IsBundle(path) {
			content, err := os.ReadFile(path)
			if err != nil {
				opts.Logger.Warnf("corpus: reading bundle %s: %v", path, err)
				return nil
			}
			entries, warning := parseBundle(path, string(content))
			if warning != "" {
				opts.Logger.Warnf("%s", warning)
			}
			for i := range entries {
				entries[i].ModTime = info.ModTime()
			}
			scripts = append(scripts, entries...)
			return nil
		}

		if !isScriptFile(path) {
			return nil
		}

		s, err := loadScript(path, info, opts.HeadBytes)
		if err != nil {
			// Invariant (§4.2 step 4): a parse failure is non-fatal. Record
			// the script with filename-derived defaults and an error marker.
			opts.Logger.Warnf("corpus: %v", err)
			s = Script{
				Path:          path,
				Name:          nameFromPath(path),
				Variant:       VariantScript,
				ModTime:       info.ModTime(),
				Size:          info.Size(),
				MetadataError: err,
			}
		}
		scripts = append(scripts, s)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(scripts, func(i, j int) bool { return scripts[i].Path < scripts[j].Path })
	return scripts, nil
}

func loadScript(path string, info fs.FileInfo, headBytes int) (Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return Script{}, metadataParseError(path, err)
	}
	defer f.Close()

	buf := make([]byte, headBytes)
	n, _ := f.Read(buf)
	head := string(buf[:n])

	meta, err := parseMetadata(head)
	if err != nil {
		return Script{}, metadataParseError(path, err)
	}

	name := meta.Name
	if name == "" {
		name = nameFromPath(path)
	}

	s := Script{
		Path:        path,
		Name:        name,
		Description: meta.Description,
		Shortcut:    meta.Shortcut,
		Schedule:    meta.Schedule,
		Tags:        meta.Tags,
		Variant:     VariantScript,
		ModTime:     info.ModTime(),
		Size:        info.Size(),
	}
	s.Section = s.DisplaySection()
	return s, nil
}

func isScriptFile(path string) bool {
	switch filepath.Ext(path) {
	case ".js", ".ts", ".mjs", ".cjs", ".py", ".sh", ".rb":
		return true
	default:
		return false
	}
}

func matchesIgnore(path, root string, ignore []string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	for _, pattern := range ignore {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

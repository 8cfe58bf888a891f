package manifest

import (
	"sort"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/carton-pm/carton/pkg/errors"
)

// Parse decodes a raw Carton.toml document into its typed form. The second
// return value lists every key present in the document that the schema does
// not recognize, as sorted dotted paths suitable for user warnings.
func Parse(data []byte, file string) (*Manifest, []string, error) {
	var doc map[string]interface{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrManifestParse,
			"failed to parse manifest at `%s`", file).
			WithDetail("file", file)
	}

	p := &parser{file: file, unused: make(map[string]struct{})}
	m, err := p.build(doc)
	if err != nil {
		return nil, nil, err
	}

	unused := make([]string, 0, len(p.unused))
	for key := range p.unused {
		unused = append(unused, key)
	}
	sort.Strings(unused)
	return m, unused, nil
}

type parser struct {
	file   string
	unused map[string]struct{}
}

func (p *parser) errf(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrManifestParse, format, args...).
		WithDetail("file", p.file)
}

func (p *parser) build(doc map[string]interface{}) (*Manifest, error) {
	m := &Manifest{}
	var err error

	for _, key := range sortedKeys(doc) {
		value := doc[key]
		switch key {
		case "package":
			tbl, ok := value.(map[string]interface{})
			if !ok {
				return nil, p.errf("`package` must be a table")
			}
			if err = p.parsePackage(tbl, &m.Package); err != nil {
				return nil, err
			}
		case "dependencies":
			m.Dependencies, err = p.parseDependencies(value, key)
			if err != nil {
				return nil, err
			}
		case "dev-dependencies":
			m.DevDependencies, err = p.parseDependencies(value, key)
			if err != nil {
				return nil, err
			}
		case "features":
			m.Features, err = p.parseFeatures(value)
			if err != nil {
				return nil, err
			}
		default:
			p.recordUnused(key, value)
		}
	}

	if m.Package.Name == "" {
		return nil, p.errf("manifest at `%s` is missing `package.name`", p.file)
	}
	if m.Package.Version == "" {
		return nil, p.errf("manifest at `%s` is missing `package.version`", p.file)
	}
	return m, nil
}

func (p *parser) parsePackage(tbl map[string]interface{}, out *PackageSection) error {
	for _, key := range sortedKeys(tbl) {
		value := tbl[key]
		switch key {
		case "name", "version", "description":
			s, ok := value.(string)
			if !ok {
				return p.errf("`package.%s` must be a string", key)
			}
			switch key {
			case "name":
				out.Name = s
			case "version":
				out.Version = s
			case "description":
				out.Description = s
			}
		case "include", "exclude":
			patterns, err := p.stringArray(value, "package."+key)
			if err != nil {
				return err
			}
			if key == "include" {
				out.Include = patterns
			} else {
				out.Exclude = patterns
			}
		default:
			p.recordUnused("package."+key, value)
		}
	}
	return nil
}

func (p *parser) parseDependencies(value interface{}, section string) (map[string]DependencySpec, error) {
	tbl, ok := value.(map[string]interface{})
	if !ok {
		return nil, p.errf("`%s` must be a table", section)
	}

	deps := make(map[string]DependencySpec, len(tbl))
	for _, name := range sortedKeys(tbl) {
		switch v := tbl[name].(type) {
		case string:
			deps[name] = DependencySpec{Version: v}
		case map[string]interface{}:
			var spec DependencySpec
			for _, key := range sortedKeys(v) {
				switch key {
				case "version":
					s, ok := v[key].(string)
					if !ok {
						return nil, p.errf("`%s.%s.version` must be a string", section, name)
					}
					spec.Version = s
				case "optional":
					b, ok := v[key].(bool)
					if !ok {
						return nil, p.errf("`%s.%s.optional` must be a boolean", section, name)
					}
					spec.Optional = b
				default:
					p.recordUnused(section+"."+name+"."+key, v[key])
				}
			}
			deps[name] = spec
		default:
			return nil, p.errf("`%s.%s` must be a version string or a table", section, name)
		}
	}
	return deps, nil
}

func (p *parser) parseFeatures(value interface{}) (map[string][]string, error) {
	tbl, ok := value.(map[string]interface{})
	if !ok {
		return nil, p.errf("`features` must be a table")
	}

	features := make(map[string][]string, len(tbl))
	for _, name := range sortedKeys(tbl) {
		tokens, err := p.stringArray(tbl[name], "features."+name)
		if err != nil {
			return nil, err
		}
		features[name] = tokens
	}
	return features, nil
}

func (p *parser) stringArray(value interface{}, path string) ([]string, error) {
	arr, ok := value.([]interface{})
	if !ok {
		return nil, p.errf("`%s` must be an array of strings", path)
	}
	out := make([]string, 0, len(arr))
	for i, elem := range arr {
		s, ok := elem.(string)
		if !ok {
			return nil, p.errf("`%s.%d` must be a string", path, i)
		}
		out = append(out, s)
	}
	return out, nil
}

// recordUnused walks the structural path below an unrecognized key down to
// its leaves, joining table keys with `.` and array indices as bare
// integers, so warnings point at the most specific offending key.
func (p *parser) recordUnused(path string, value interface{}) {
	switch v := value.(type) {
	case map[string]interface{}:
		if len(v) == 0 {
			p.unused[path] = struct{}{}
			return
		}
		for _, key := range sortedKeys(v) {
			p.recordUnused(path+"."+key, v[key])
		}
	case []interface{}:
		if len(v) == 0 {
			p.unused[path] = struct{}{}
			return
		}
		for i, elem := range v {
			p.recordUnused(path+"."+strconv.Itoa(i), elem)
		}
	case []map[string]interface{}:
		// Arrays of tables decode to this shape
		if len(v) == 0 {
			p.unused[path] = struct{}{}
			return
		}
		for i, elem := range v {
			p.recordUnused(path+"."+strconv.Itoa(i), elem)
		}
	default:
		p.unused[path] = struct{}{}
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

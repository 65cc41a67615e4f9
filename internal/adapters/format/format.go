// Package format renders resolved snapshots for build tools and scripts.
package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/vcsstamp/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Format names an output format.
type Format string

const (
	// Text prints one "key=value" definition per line.
	Text Format = "text"
	// CMake prints the definitions as -D arguments.
	CMake Format = "cmake"
	// Env prints shell variable assignments.
	Env Format = "env"
	// JSON prints the full report as a JSON object.
	JSON Format = "json"
	// YAML prints the full report as a YAML mapping.
	YAML Format = "yaml"
	// Header prints a C header defining string macros.
	Header Format = "header"
)

// Formats lists every supported format in display order.
var Formats = []Format{Text, CMake, Env, JSON, YAML, Header}

var (
	cIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	shellSafe   = regexp.MustCompile(`^[A-Za-z0-9_./:@%+=,-]+$`)
)

// Report is everything a format may render.
type Report struct {
	Resolution   domain.Resolution
	Fingerprint  string
	HeaderPrefix string
}

// document is the shape of the json and yaml formats.
type document struct {
	Branch         string `json:"branch" yaml:"branch"`
	Revision       string `json:"revision" yaml:"revision"`
	Source         string `json:"source" yaml:"source"`
	Actual         bool   `json:"actual" yaml:"actual"`
	Fingerprint    string `json:"fingerprint" yaml:"fingerprint"`
	RepositoryRoot string `json:"repository_root" yaml:"repository_root"`
	CachePath      string `json:"cache_path" yaml:"cache_path"`
}

// Parse validates a format name. An empty name selects Text.
func Parse(name string) (Format, error) {
	if name == "" {
		return Text, nil
	}
	if f := Format(strings.ToLower(name)); slices.Contains(Formats, f) {
		return f, nil
	}
	return "", zerr.With(zerr.Wrap(domain.ErrUnknownFormat, "parse format"), "format", name)
}

// Names returns the supported format names.
func Names() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return names
}

// Write renders report in format f to w.
func Write(w io.Writer, f Format, report Report) error {
	data, err := Render(f, report)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Join(domain.ErrOutputWriteFailed, err)
	}
	return nil
}

// Render returns report rendered in format f.
func Render(f Format, report Report) ([]byte, error) {
	snapshot := report.Resolution.Snapshot

	switch f {
	case Text, "":
		var sb strings.Builder
		for _, def := range snapshot.Definitions() {
			fmt.Fprintf(&sb, "%s=%s\n", def.Key, def.Value)
		}
		return []byte(sb.String()), nil

	case CMake:
		args := make([]string, 0, 2)
		for _, def := range snapshot.Definitions() {
			args = append(args, shellQuote("-D"+def.Key+"="+def.Value))
		}
		return []byte(strings.Join(args, " ") + "\n"), nil

	case Env:
		var sb strings.Builder
		for _, def := range snapshot.Definitions() {
			fmt.Fprintf(&sb, "%s=%s\n", strings.ToUpper(def.Key), shellQuote(def.Value))
		}
		return []byte(sb.String()), nil

	case JSON:
		data, err := json.MarshalIndent(newDocument(report), "", "  ")
		if err != nil {
			return nil, zerr.Wrap(err, "encode json")
		}
		return append(data, '\n'), nil

	case YAML:
		data, err := yaml.Marshal(newDocument(report))
		if err != nil {
			return nil, zerr.Wrap(err, "encode yaml")
		}
		return data, nil

	case Header:
		return renderHeader(snapshot, report.HeaderPrefix)

	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownFormat, "render"), "format", string(f))
	}
}

func newDocument(report Report) document {
	res := report.Resolution
	return document{
		Branch:         res.Snapshot.Branch,
		Revision:       res.Snapshot.Revision,
		Source:         string(res.Source),
		Actual:         res.HasActualInfo(),
		Fingerprint:    report.Fingerprint,
		RepositoryRoot: res.RepositoryRoot,
		CachePath:      res.CachePath,
	}
}

// renderHeader writes an include-guarded header with <PREFIX>_VCS_BRANCH and <PREFIX>_VCS_REVISION.
func renderHeader(snapshot domain.Snapshot, prefix string) ([]byte, error) {
	if prefix == "" {
		prefix = domain.DefaultHeaderPrefix
	}
	if !cIdentifier.MatchString(prefix) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidHeaderPrefix, "render header"), "prefix", prefix)
	}
	prefix = strings.ToUpper(prefix)
	guard := prefix + "_VCS_INFO_H"

	var sb strings.Builder
	sb.WriteString("// Code generated by vcsstamp. DO NOT EDIT.\n\n")
	fmt.Fprintf(&sb, "#ifndef %s\n#define %s\n\n", guard, guard)
	for _, def := range snapshot.Definitions() {
		fmt.Fprintf(&sb, "#define %s_%s %s\n", prefix, strings.ToUpper(def.Key), cString(def.Value))
	}
	fmt.Fprintf(&sb, "\n#endif // %s\n", guard)

	return []byte(sb.String()), nil
}

// cString returns s as a C string literal.
func cString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// shellQuote single-quotes s unless it only contains characters that need no quoting.
func shellQuote(s string) string {
	if shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Package document loads key to list-of-scalars documents from disk.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dimchansky/utfbom"
	"gopkg.in/yaml.v3"

	kerrors "github.com/vchilikov/keyoverlap/internal/errors"
)

// Document maps string keys to lists of scalar values, in file order.
type Document struct {
	Name    string
	Path    string
	Entries map[string][]Value
}

// Keys returns the document keys in lexicographic order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d.Entries))
	for k := range d.Entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type decodeFunc func(data []byte) (any, error)

var decoders = map[string]decodeFunc{
	".json": decodeJSON,
	".yaml": decodeYAML,
	".yml":  decodeYAML,
	".toml": decodeTOML,
}

var readFile = os.ReadFile

// Load reads and validates one document. The decoder is picked from the file
// extension; unknown extensions are read as JSON.
func Load(path string) (Document, error) {
	data, err := readFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Document{}, kerrors.New(kerrors.FileNotFound, "file not found: "+path, err).WithPath(path)
		}
		return Document{}, kerrors.New(kerrors.FileUnreadable, "read "+path, err).WithPath(path)
	}
	data, err = io.ReadAll(utfbom.SkipOnly(bytes.NewReader(data)))
	if err != nil {
		return Document{}, kerrors.New(kerrors.FileUnreadable, "read "+path, err).WithPath(path)
	}

	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		decode = decodeJSON
	}
	raw, err := decode(data)
	if err != nil {
		var kerr *kerrors.Error
		if errors.As(err, &kerr) {
			kerr.Message = fmt.Sprintf("%s in %s", kerr.Message, filepath.Base(path))
			return Document{}, kerr.WithPath(path)
		}
		return Document{}, kerrors.New(kerrors.MalformedDocument, "invalid format in "+filepath.Base(path), err).WithPath(path)
	}

	entries, err := toEntries(raw)
	if err != nil {
		return Document{}, kerrors.New(kerrors.InvalidDocument, "unsupported structure in "+filepath.Base(path), err).WithPath(path)
	}
	return Document{Name: filepath.Base(path), Path: path, Entries: entries}, nil
}

// LoadPair loads both documents, stopping at the first failure.
func LoadPair(left, right string) (Document, Document, error) {
	l, err := Load(left)
	if err != nil {
		return Document{}, Document{}, err
	}
	r, err := Load(right)
	if err != nil {
		return Document{}, Document{}, err
	}
	return l, r, nil
}

func toEntries(raw any) (map[string][]Value, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		if _, anyKeys := raw.(map[any]any); anyKeys {
			return nil, errors.New("top level keys must be strings")
		}
		return nil, fmt.Errorf("top level must be an object, got %s", describe(raw))
	}

	entries := make(map[string][]Value, len(obj))
	for key, rawList := range obj {
		list, ok := rawList.([]any)
		if !ok {
			return nil, fmt.Errorf("key %q: value must be a list, got %s", key, describe(rawList))
		}
		values := make([]Value, 0, len(list))
		for i, elem := range list {
			v, ok := scalar(elem)
			if !ok {
				return nil, fmt.Errorf("key %q: element %d is a nested %s; only scalar elements are supported", key, i, describe(elem))
			}
			values = append(values, v)
		}
		entries[key] = values
	}
	return entries, nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, jsonError(data, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		line, col := lineColumn(data, dec.InputOffset())
		return nil, kerrors.New(kerrors.MalformedDocument, "invalid JSON", errors.New("extra data after top-level value")).At(line, col)
	}
	return raw, nil
}

func jsonError(data []byte, err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		line, col := lineColumn(data, syntaxErr.Offset)
		return kerrors.New(kerrors.MalformedDocument, "invalid JSON", err).At(line, col)
	case errors.As(err, &typeErr):
		line, col := lineColumn(data, typeErr.Offset)
		return kerrors.New(kerrors.MalformedDocument, "invalid JSON", err).At(line, col)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		line, col := lineColumn(data, int64(len(data)))
		return kerrors.New(kerrors.MalformedDocument, "invalid JSON", io.ErrUnexpectedEOF).At(line, col)
	default:
		return kerrors.New(kerrors.MalformedDocument, "invalid JSON", err)
	}
}

// lineColumn converts a byte offset into 1-based line and column numbers.
func lineColumn(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	if offset < 0 {
		offset = 0
	}
	prefix := data[:offset]
	line := bytes.Count(prefix, []byte{'\n'}) + 1
	col := int(offset) - bytes.LastIndexByte(prefix, '\n')
	return line, col
}

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

func decodeYAML(data []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		kerr := kerrors.New(kerrors.MalformedDocument, "invalid YAML", err)
		if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
			if line, convErr := strconv.Atoi(m[1]); convErr == nil {
				kerr.At(line, 0)
			}
		}
		return nil, kerr
	}
	return raw, nil
}

func decodeTOML(data []byte) (any, error) {
	raw := make(map[string]any)
	if _, err := toml.Decode(string(data), &raw); err != nil {
		kerr := kerrors.New(kerrors.MalformedDocument, "invalid TOML", err)
		var perr toml.ParseError
		if errors.As(err, &perr) {
			kerr.At(perr.Position.Line, 0)
		}
		return nil, kerr
	}
	return raw, nil
}

// Package config reads the parameters of a pipeline run from a table based
// key-value store.
package config

import (
	"fmt"
	"strings"

	"github.com/getsentry/stylestats/internal/errorutil"
	"github.com/ilyakaznacheev/cleanenv"
)

// ValueType is the type a parameter is expected to have.
type ValueType int

const (
	AnyValue ValueType = iota
	TextValue
	NumberValue
	BoolValue
)

func (t ValueType) String() string {
	switch t {
	case AnyValue:
		return "any"
	case TextValue:
		return "text"
	case NumberValue:
		return "number"
	case BoolValue:
		return "boolean"
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}

// Source looks parameters up by table and name. A nil def means the
// parameter is required.
type Source interface {
	GetConfigValue(table, parameter string, def interface{}, expected ValueType) (interface{}, error)
}

// Tables is an in-memory Source.
type Tables map[string]map[string]interface{}

type file struct {
	Tables Tables `yaml:"tables" json:"tables" toml:"tables" edn:"tables"`
}

// Load reads tables from a YAML, JSON, TOML or EDN file, picked by the file
// extension.
func Load(path string) (Tables, error) {
	var f file
	if err := cleanenv.ReadConfig(path, &f); err != nil {
		return nil, fmt.Errorf("config: can't read %s: %w", path, err)
	}
	if f.Tables == nil {
		return Tables{}, nil
	}
	return f.Tables, nil
}

func (t Tables) GetConfigValue(table, parameter string, def interface{}, expected ValueType) (interface{}, error) {
	v, ok := t[table][parameter]
	if !ok || v == nil {
		if def == nil {
			return nil, fmt.Errorf("config: %w: %s.%s", errorutil.ErrConfigParameterNotFound, table, parameter)
		}
		v = def
	}
	converted, err := convert(v, expected)
	if err != nil {
		return nil, fmt.Errorf("config: %s.%s: %w", table, parameter, err)
	}
	return converted, nil
}

func convert(v interface{}, expected ValueType) (interface{}, error) {
	switch expected {
	case AnyValue:
		return v, nil
	case TextValue:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case BoolValue:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case NumberValue:
		switch n := v.(type) {
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case uint64:
			return float64(n), nil
		case float32:
			return float64(n), nil
		case float64:
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: expected a %s value, got %T", errorutil.ErrInvalidParameter, expected, v)
}

// GetString returns a text parameter.
func GetString(src Source, table, parameter string, def interface{}) (string, error) {
	v, err := src.GetConfigValue(table, parameter, def, TextValue)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// GetBool returns a boolean parameter.
func GetBool(src Source, table, parameter string, def interface{}) (bool, error) {
	v, err := src.GetConfigValue(table, parameter, def, BoolValue)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// GetFilePathConfigValue returns a text parameter holding a path, without
// the quotes a copied path usually comes with.
func GetFilePathConfigValue(src Source, table, parameter string, def interface{}) (string, error) {
	s, err := GetString(src, table, parameter, def)
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	for len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return s, nil
}

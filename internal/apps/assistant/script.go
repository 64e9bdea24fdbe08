package assistant

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_script.yaml
var defaultScriptYAML []byte

// Intent is one keyword rule of the script.
type Intent struct {
	Name     string      `yaml:"name"`
	Keywords []string    `yaml:"keywords"`
	Type     MessageType `yaml:"type"`
	Reply    string      `yaml:"reply"`
}

// Script is the assistant's greeting plus its ordered intent rules.
type Script struct {
	Greeting string   `yaml:"greeting"`
	Intents  []Intent `yaml:"intents"`
	Fallback Intent   `yaml:"fallback"`
}

// DefaultScript returns the built-in script.
func DefaultScript() *Script {
	s, err := ParseScript(defaultScriptYAML)
	if err != nil {
		panic("assistant: invalid embedded script: " + err.Error())
	}
	return s
}

// LoadScript reads a script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assistant script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse assistant script %s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes and validates a YAML script. Keywords are lower-cased
// so matching stays case-insensitive.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Greeting) == "" {
		return nil, errors.New("greeting is required")
	}
	if s.Fallback.Reply == "" {
		return nil, errors.New("fallback reply is required")
	}
	if s.Fallback.Type == "" {
		s.Fallback.Type = TypeText
	}
	if !s.Fallback.Type.Valid() {
		return nil, fmt.Errorf("fallback: unknown message type %q", s.Fallback.Type)
	}
	for i := range s.Intents {
		in := &s.Intents[i]
		if in.Name == "" {
			in.Name = fmt.Sprintf("intent_%d", i+1)
		}
		if len(in.Keywords) == 0 {
			return nil, fmt.Errorf("intent %s: at least one keyword is required", in.Name)
		}
		if in.Reply == "" {
			return nil, fmt.Errorf("intent %s: reply is required", in.Name)
		}
		if in.Type == "" {
			in.Type = TypeText
		}
		if !in.Type.Valid() {
			return nil, fmt.Errorf("intent %s: unknown message type %q", in.Name, in.Type)
		}
		for k, kw := range in.Keywords {
			if strings.TrimSpace(kw) == "" {
				return nil, fmt.Errorf("intent %s: keyword %d is blank", in.Name, k+1)
			}
			in.Keywords[k] = strings.ToLower(kw)
		}
	}
	return &s, nil
}

// Classify returns the first intent with a keyword contained in text, or the
// fallback. Rule order is priority order.
func (s *Script) Classify(text string) Intent {
	lower := strings.ToLower(text)
	for _, in := range s.Intents {
		for _, kw := range in.Keywords {
			if strings.Contains(lower, kw) {
				return in
			}
		}
	}
	return s.Fallback
}

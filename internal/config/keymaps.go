// internal/config/keymaps.go
package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/userevent/internal/keyboard"
	"github.com/xkilldash9x/userevent/internal/pointer"
)

// LoadKeyboardMap reads a YAML list of key definitions. An empty path
// yields nil so the engine falls back to its default layout.
func LoadKeyboardMap(path string) (keyboard.Map, error) {
	var m keyboard.Map
	if err := loadYAML(path, &m); err != nil {
		return nil, fmt.Errorf("loading keyboard map: %w", err)
	}
	return m, nil
}

// LoadPointerMap reads a YAML list of pointer keys.
func LoadPointerMap(path string) (pointer.Map, error) {
	var m pointer.Map
	if err := loadYAML(path, &m); err != nil {
		return nil, fmt.Errorf("loading pointer map: %w", err)
	}
	for _, k := range m {
		switch k.PointerType {
		case pointer.TypeMouse, pointer.TypeTouch, pointer.TypePen:
		default:
			return nil, fmt.Errorf("loading pointer map: key %q has unknown pointer type %q", k.Name, k.PointerType)
		}
	}
	return m, nil
}

func loadYAML(path string, out any) error {
	if path == "" {
		return nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

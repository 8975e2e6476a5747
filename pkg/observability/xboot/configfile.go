package xboot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 配置文件格式
type Format string

// 支持的配置文件格式
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DetectFormat 根据扩展名判断配置文件格式（.yaml/.yml/.json，大小写不敏感）
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %w: extension %q", ErrConfiguration, ErrConfigFormat, ext)
	}
}

// LoadConfigFile 读取 YAML 或 JSON 配置文件
//
// 文件中未出现的字段保持 [DefaultConfig] 的值。只做解析，不做 [Config.Validate]。
func LoadConfigFile(path string) (Config, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: read %s: %w", ErrConfiguration, path, err)
	}
	cfg, err := LoadConfigBytes(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("%w (%s)", err, path)
	}
	return cfg, nil
}

// LoadConfigBytes 从字节数据解析配置，适用于 ConfigMap 等不落盘的场景
//
// 空数据返回 [DefaultConfig]。
func LoadConfigBytes(data []byte, format Format) (Config, error) {
	cfg := DefaultConfig()
	if len(data) == 0 {
		if format != FormatYAML && format != FormatJSON {
			return Config{}, fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrConfigFormat, format)
		}
		return cfg, nil
	}

	k, err := loadKoanf(data, format)
	if err != nil {
		return Config{}, err
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("%w: decode config: %w", ErrConfiguration, err)
	}
	return cfg, nil
}

func loadKoanf(data []byte, format Format) (*koanf.Koanf, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrConfigFormat, format)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: parse config: %w", ErrConfiguration, err)
	}
	return k, nil
}

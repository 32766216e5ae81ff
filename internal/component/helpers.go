package component

import "github.com/synthctl/synthctl/internal/core"

func stringVal(cfg *core.EffectiveConfig, key, fallback string) string {
	if v, ok := cfg.Get(key); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

func boolVal(cfg *core.EffectiveConfig, key string, fallback bool) bool {
	if v, ok := cfg.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

func intVal(cfg *core.EffectiveConfig, key string, fallback int) int {
	if v, ok := cfg.Get(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return fallback
}

func mapVal(cfg *core.EffectiveConfig, key string) map[string]any {
	if v, ok := cfg.Get(key); ok {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

package config

import "log/slog"

const (
	LangEN = "en"
	LangES = "es"
)

// GetLocaleConfig maps a requested language to a supported one, falling
// back to English.
func GetLocaleConfig(lang string) string {
	switch lang {
	case LangEN, LangES:
		return lang
	case "":
		return LangEN
	default:
		slog.Warn("unsupported language, using english", "language", lang)
		return LangEN
	}
}

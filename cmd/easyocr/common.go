package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	easyocr "github.com/ironsheep/easyocr-go"
	"github.com/ironsheep/easyocr-go/internal/config"
	"github.com/ironsheep/easyocr-go/internal/logging"
)

// autoNameLanguage makes each file choose its own language from its name.
const autoNameLanguage = "auto-name"

// fileNameLanguages maps sample image base names to their language tag.
var fileNameLanguages = map[string]string{
	"english":           "en",
	"example":           "en",
	"example2":          "en",
	"example3":          "en",
	"easyocr_framework": "en",
	"width_ths":         "en",
	"french":            "fr",
	"japanese":          "ja",
	"korean":            "ko",
	"chinese":           "ch_sim",
	"thai":              "th",
}

// languageFromFileName derives a language tag from the part of the base name
// before the first dot. Unknown names read as English.
func languageFromFileName(path string) string {
	name := strings.ToLower(strings.SplitN(filepath.Base(path), ".", 2)[0])
	if tag, ok := fileNameLanguages[name]; ok {
		return tag
	}
	return easyocr.DefaultLanguage
}

// loadConfig reads .env and the environment, then applies the persistent
// flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, *logging.Logger, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	if v, _ := cmd.Flags().GetString("models"); v != "" {
		cfg.ModelDir = v
	}
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		cfg.Language = v
	}
	if v, _ := cmd.Flags().GetString("region-mode"); v != "" {
		cfg.RegionMode = strings.ToLower(v)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger("easyocr")
	logger.SetLevel(cfg.Level())
	return cfg, logger, nil
}

// recognizers opens one Recognizer per language on demand.
type recognizers struct {
	cfg    *config.Config
	logger *logging.Logger
	open   map[string]*easyocr.Recognizer
}

func newRecognizers(cfg *config.Config, logger *logging.Logger) *recognizers {
	return &recognizers{cfg: cfg, logger: logger, open: make(map[string]*easyocr.Recognizer)}
}

// language resolves the language for path.
func (rs *recognizers) language(path string) string {
	if rs.cfg.Language == autoNameLanguage {
		return languageFromFileName(path)
	}
	return rs.cfg.Language
}

// get returns the Recognizer for lang, creating it on first use.
func (rs *recognizers) get(lang string) (*easyocr.Recognizer, error) {
	if r, ok := rs.open[lang]; ok {
		return r, nil
	}

	mode, err := easyocr.ParseRegionMode(rs.cfg.RegionMode)
	if err != nil {
		return nil, err
	}

	r, err := easyocr.New(rs.cfg.ModelDir,
		easyocr.WithLanguage(lang),
		easyocr.WithLogger(rs.logger),
		easyocr.WithRegionMode(mode),
		easyocr.WithIntraOpThreads(rs.cfg.Threads),
		easyocr.WithLibraryPath(rs.cfg.ORTLibrary),
	)
	if err != nil {
		return nil, err
	}
	rs.open[lang] = r
	return r, nil
}

func (rs *recognizers) Close() {
	for lang, r := range rs.open {
		if err := r.Close(); err != nil {
			rs.logger.Warn("failed to close recognizer", "language", lang, "error", err)
		}
	}
}

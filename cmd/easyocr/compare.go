package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ironsheep/easyocr-go/internal/baseline"
	"github.com/ironsheep/easyocr-go/internal/imaging"
)

// compareOutput is one image's entry in compare output.
type compareOutput struct {
	Path string `json:"path"`
	baseline.Comparison
	Error string `json:"error,omitempty"`
}

var compareCMD = &cobra.Command{
	Use:   "compare <image>...",
	Short: "Compare EasyOCR readings with Tesseract",
	Long: `Read each image with EasyOCR and with Tesseract and report whether the
readings match after trimming, with their edit-distance similarity.

The Tesseract language follows the EasyOCR language unless --baseline-lang
is given or EASYOCR_BASELINE_LANG names something other than eng.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		baseLang, _ := cmd.Flags().GetString("baseline-lang")
		if baseLang == "" && cfg.BaselineLanguage != baseline.DefaultLanguage {
			baseLang = cfg.BaselineLanguage
		}

		rs := newRecognizers(cfg, logger)
		defer rs.Close()

		outputs := make([]compareOutput, 0, len(args))
		for _, path := range args {
			lang := rs.language(path)
			tessLang := baseLang
			if tessLang == "" {
				tessLang = baseline.LanguageFor(lang)
			}
			out := compareImage(rs, lang, baseline.NewEngine(tessLang), path)
			if out.Error != "" {
				logger.Error("compare failed", "path", path, "error", out.Error)
			}
			outputs = append(outputs, out)
		}

		w := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(outputs)
		}
		for _, out := range outputs {
			name := filepath.Base(out.Path)
			if out.Error != "" {
				fmt.Fprintf(w, "%s: error: %s\n", name, out.Error)
				continue
			}
			fmt.Fprintf(w, "%s: match=%t similarity=%.3f\n", name, out.Match, out.Similarity)
			if !out.Match {
				fmt.Fprintf(w, "  easyocr:   %q\n  tesseract: %q\n", out.EasyOCR, out.Tesseract)
			}
		}
		return nil
	},
}

func init() {
	compareCMD.Flags().Bool("json", false, "print results as JSON")
	compareCMD.Flags().String("baseline-lang", "", "Tesseract language code, e.g. eng")
}

func compareImage(rs *recognizers, lang string, engine *baseline.Engine, path string) compareOutput {
	out := compareOutput{Path: path}

	r, err := rs.get(lang)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	img, _, err := imaging.LoadFile(path)
	if err != nil {
		out.Error = err.Error()
		return out
	}

	results, err := r.Read(img)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	tess, err := engine.ExtractImage(img)
	if err != nil {
		out.Error = fmt.Sprintf("tesseract: %v", err)
		return out
	}

	var text string
	if len(results) > 0 {
		text = results[0].Text
	}
	out.Comparison = baseline.Compare(text, tess.Text)
	return out
}

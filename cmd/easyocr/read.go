package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	easyocr "github.com/ironsheep/easyocr-go"
	"github.com/ironsheep/easyocr-go/internal/imaging"
)

// readOutput is one image's entry in --json output.
type readOutput struct {
	Path      string           `json:"path"`
	Language  string           `json:"language"`
	Results   []easyocr.Result `json:"results,omitempty"`
	Annotated string           `json:"annotated,omitempty"`
	Error     string           `json:"error,omitempty"`
}

var readCMD = &cobra.Command{
	Use:   "read <image>...",
	Short: "Read text from images",
	Long: `Read the text in each image and print it with its bounding box.

With --annotate, a copy of every image with the detected region outlined is
written to the given directory as <name>.annotated.png.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		annotateDir, _ := cmd.Flags().GetString("annotate")
		asJSON, _ := cmd.Flags().GetBool("json")

		rs := newRecognizers(cfg, logger)
		defer rs.Close()

		outputs := make([]readOutput, 0, len(args))
		failed := 0
		for _, path := range args {
			out := readImage(rs, path, annotateDir)
			if out.Error != "" {
				failed++
				logger.Error("read failed", "path", path, "error", out.Error)
			}
			outputs = append(outputs, out)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(outputs); err != nil {
				return err
			}
		} else {
			printReadOutputs(cmd.OutOrStdout(), outputs)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d images failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	readCMD.Flags().String("annotate", "", "write images with the detected region outlined to this directory")
	readCMD.Flags().Bool("json", false, "print results as JSON")
}

func readImage(rs *recognizers, path, annotateDir string) readOutput {
	lang := rs.language(path)
	out := readOutput{Path: path, Language: lang}

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
	out.Results = results

	if annotateDir != "" && len(results) > 0 {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".annotated.png"
		dst := filepath.Join(annotateDir, name)
		if err := imaging.SavePNG(dst, imaging.DrawBox(img, results[0].SourceBox, imaging.DefaultBoxColor)); err != nil {
			out.Error = err.Error()
			return out
		}
		out.Annotated = dst
	}

	return out
}

func printReadOutputs(w io.Writer, outputs []readOutput) {
	for _, out := range outputs {
		if out.Error != "" {
			fmt.Fprintf(w, "%s [%s]: error: %s\n", out.Path, out.Language, out.Error)
			continue
		}
		for _, res := range out.Results {
			fmt.Fprintf(w, "%s [%s]: %s\n", out.Path, out.Language, res.Text)
			fmt.Fprintf(w, "  box: %v (source %v)\n", res.Box, res.SourceBox)
		}
		if out.Annotated != "" {
			fmt.Fprintf(w, "  annotated: %s\n", out.Annotated)
		}
	}
}

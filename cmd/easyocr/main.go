package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/easyocr-go/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var mainCMD = &cobra.Command{
	Use:   "easyocr",
	Short: "Read text from images with EasyOCR ONNX models",
	Long: `Reads text from images with the EasyOCR detector and recognizer models
exported to ONNX, serves the same pipeline as an MCP server over stdio or a REST API, and
compares readings against Tesseract.

Configuration comes from EASYOCR_* environment variables, optionally loaded
from a .env file in the working directory. Flags override the environment.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var versionCMD = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "easyocr %s\n", Version)
		fmt.Fprintf(cmd.OutOrStdout(), "  Build time: %s\n", BuildTime)
		fmt.Fprintf(cmd.OutOrStdout(), "  Git commit: %s\n", GitCommit)
	},
}

func init() {
	mainCMD.PersistentFlags().String("models", "", "model directory (default $EASYOCR_MODEL_DIR or ./models)")
	mainCMD.PersistentFlags().String("lang", "", "language tag, or \"auto-name\" to derive it from each file name (default $EASYOCR_LANG or en)")
	mainCMD.PersistentFlags().String("region-mode", "", "region mode: detector or content (default $EASYOCR_REGION_MODE or detector)")

	mainCMD.AddCommand(readCMD)
	mainCMD.AddCommand(serveCMD)
	mainCMD.AddCommand(httpCMD)
	mainCMD.AddCommand(compareCMD)
	mainCMD.AddCommand(versionCMD)
}

func main() {
	server.Version = Version
	mainCMD.Version = Version

	if err := mainCMD.Execute(); err != nil {
		os.Exit(1)
	}
}

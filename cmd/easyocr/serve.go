package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/easyocr-go/internal/baseline"
	"github.com/ironsheep/easyocr-go/internal/server"
)

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Start the MCP (Model Context Protocol) server. Requests are read from stdin
and responses written to stdout, one JSON-RPC message per line. Logs go to
stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		lang := cfg.Language
		if lang == autoNameLanguage {
			lang = "en"
		}

		rs := newRecognizers(cfg, logger)
		defer rs.Close()

		r, err := rs.get(lang)
		if err != nil {
			return err
		}

		logger.Debug("starting MCP server",
			"version", Version,
			"build_time", BuildTime,
			"commit", GitCommit,
			"language", lang,
		)

		srv := server.New(r, baseline.NewEngine(cfg.BaselineLanguage), logger.With("server"))
		return srv.Run()
	},
}

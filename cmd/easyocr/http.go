package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	easyocr "github.com/ironsheep/easyocr-go"
	"github.com/ironsheep/easyocr-go/internal/imaging"
	"github.com/ironsheep/easyocr-go/internal/logging"
	"github.com/ironsheep/easyocr-go/internal/server"
)

// maxUploadBytes caps the request body of the image endpoints.
const maxUploadBytes = 32 << 20

var httpCMD = &cobra.Command{
	Use:   "http",
	Short: "Start REST API server",
	Long: `Start a REST API server. POST raw image bytes to /ocr to read them, or to
/region to find the text region only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		lang := cfg.Language
		if lang == autoNameLanguage {
			lang = easyocr.DefaultLanguage
		}

		rs := newRecognizers(cfg, logger)
		defer rs.Close()

		r, err := rs.get(lang)
		if err != nil {
			return err
		}

		gin.SetMode(gin.ReleaseMode)
		engine := newHTTPEngine(r, logger.With("http"))

		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetUint("port")
		addr := fmt.Sprintf("%s:%d", host, port)
		logger.Info("listening", "addr", addr, "language", lang)
		if err := engine.Run(addr); err != nil {
			return errors.Join(errors.New("failed to run HTTP server engine"), err)
		}
		return nil
	},
}

func init() {
	httpCMD.Flags().String("host", "0.0.0.0", "Host server will be listening on")
	httpCMD.Flags().Uint("port", 8884, "Port server will be listening on")
}

// newHTTPEngine routes the image endpoints to reader.
func newHTTPEngine(reader server.Reader, logger *logging.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"language": reader.Language(),
			"version":  Version,
		})
	})

	engine.POST("/ocr", func(ctx *gin.Context) {
		img, ok := decodeBody(ctx)
		if !ok {
			return
		}
		results, err := reader.Read(img)
		if err != nil {
			logger.Warn("read failed", "error", err)
		}
		ctx.JSON(http.StatusOK, gin.H{
			"status":   err == nil,
			"language": reader.Language(),
			"results":  results,
			"error":    errorString(err),
			"code":     errorCode(err),
		})
	})

	engine.POST("/region", func(ctx *gin.Context) {
		img, ok := decodeBody(ctx)
		if !ok {
			return
		}
		box, err := reader.Detect(img)
		if err != nil {
			logger.Warn("detect failed", "error", err)
		}
		b := img.Bounds()
		ctx.JSON(http.StatusOK, gin.H{
			"status":     err == nil,
			"box":        box,
			"source_box": easyocr.ScaleBox(box, b.Dx(), b.Dy()),
			"error":      errorString(err),
			"code":       errorCode(err),
		})
	})

	return engine
}

// decodeBody decodes the request body as an image. On failure it writes a
// 400 response and returns false.
func decodeBody(ctx *gin.Context) (img image.Image, ok bool) {
	data, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxUploadBytes))
	if err == nil && len(data) == 0 {
		err = errors.New("empty request body")
	}
	if err == nil {
		img, _, err = imaging.Decode(data)
	}
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"status": false,
			"error":  err.Error(),
		})
		return nil, false
	}
	return img, true
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func errorCode(err error) string {
	var ocrErr *easyocr.Error
	if errors.As(err, &ocrErr) {
		return string(ocrErr.Code)
	}
	return ""
}

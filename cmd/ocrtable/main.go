package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ivanvanderbyl/ocrtable"
	"github.com/ivanvanderbyl/ocrtable/ocr"
)

var gridColor = color.RGBA{R: 255, G: 0, B: 64, A: 255}

func main() {
	cmd := &cli.Command{
		Name:  "ocrtable",
		Usage: "Rebuild tab-delimited tables from recognized text fragments",
		Commands: []*cli.Command{
			{
				Name:   "json",
				Usage:  "Analyze fragments from a JSON capture (use - for stdin)",
				Flags:  commonFlags(),
				Action: analyzeJSON,
			},
			{
				Name:  "image",
				Usage: "Run Tesseract on a screenshot and analyze the words (needs -tags ocr)",
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:  "lang",
						Usage: "Tesseract language(s), e.g. eng+deu",
						Value: "eng",
					},
					&cli.StringFlag{
						Name:  "overlay",
						Usage: "Write a PNG copy of the screenshot with the grid drawn on it",
					},
				),
				Action: analyzeImage,
			},
			{
				Name:  "pdf",
				Usage: "Analyze the text layer of a PDF page",
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number (0-indexed)",
						Value: 0,
					},
				),
				Action: analyzePDF,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "input",
			Aliases:  []string{"i"},
			Usage:    "Input file path",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format: text, markdown or json",
			Value: "text",
		},
		&cli.BoolFlag{
			Name:  "no-space-joining",
			Usage: "Concatenate tokens within a cell (for scripts without word spaces)",
		},
		&cli.BoolFlag{
			Name:  "align-rows",
			Usage: "Start every row's tab count at column 0",
		},
		&cli.BoolFlag{
			Name:  "fold-width",
			Usage: "Fold full-width characters to ASCII before analysis",
		},
		&cli.BoolFlag{
			Name:  "metrics",
			Usage: "Log timing and counts for the analysis",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "warn",
		},
	}
}

func newAnalyzer(cmd *cli.Command, logger *zap.Logger) *ocrtable.Analyzer {
	config := ocrtable.DefaultConfig()
	config.Compose.SpaceJoining = !cmd.Bool("no-space-joining")
	config.Compose.AlignRows = cmd.Bool("align-rows")
	config.EnableMetricsLogging = cmd.Bool("metrics")
	config.DrawGrid = cmd.String("overlay") != ""
	config.Logger = logger
	return ocrtable.NewAnalyzerWithConfig(config)
}

func analyzeJSON(_ context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.String("log-level"))
	defer logger.Sync()

	var r io.Reader = os.Stdin
	if path := cmd.String("input"); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "failed to open input")
		}
		defer f.Close()
		r = f
	}

	capture, err := ocrtable.LoadCapture(r)
	if err != nil {
		return err
	}

	words := ocrtable.NewWordBoxes(capture.Fragments, ocrtable.IngestOptions{FoldWidth: cmd.Bool("fold-width")})
	table, text := newAnalyzer(cmd, logger).Reconstruct(words, capture.Canvas.Rect())

	return writeResult(cmd, table, text)
}

func analyzeImage(_ context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.String("log-level"))
	defer logger.Sync()

	inputPath := cmd.String("input")
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Wrap(err, "failed to read image")
	}

	client, err := ocr.New()
	if err != nil {
		return errors.Wrap(err, "failed to initialise OCR")
	}
	defer client.Close()

	if err := client.SetLanguage(cmd.String("lang")); err != nil {
		return errors.Wrap(err, "failed to set OCR language")
	}

	fragments, err := client.RecognizeWords(data)
	if err != nil {
		return errors.Wrapf(err, "failed to recognize %s", inputPath)
	}
	logger.Debug("words recognized", zap.Int("count", len(fragments)))

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "failed to decode image")
	}
	b := img.Bounds()
	canvas := ocrtable.Rect{X0: float64(b.Min.X), Y0: float64(b.Min.Y), X1: float64(b.Max.X), Y1: float64(b.Max.Y)}

	analyzer := newAnalyzer(cmd, logger)
	words := ocrtable.NewWordBoxes(fragments, ocrtable.IngestOptions{FoldWidth: cmd.Bool("fold-width")})
	table, text := analyzer.Reconstruct(words, canvas)

	if analyzer.Config().DrawGrid {
		if err := writeOverlay(cmd.String("overlay"), table.RenderOverlay(img, gridColor)); err != nil {
			return err
		}
	}

	return writeResult(cmd, table, text)
}

func analyzePDF(_ context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd.String("log-level"))
	defer logger.Sync()

	// Initialise pdfium
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialise pdfium")
	}
	defer pool.Close()

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		return errors.Wrap(err, "failed to get pdfium instance")
	}

	words, canvas, err := ocrtable.ExtractFileWordBoxes(instance, cmd.String("input"), cmd.Int("page"))
	if err != nil {
		return err
	}
	opts := ocrtable.IngestOptions{FoldWidth: cmd.Bool("fold-width")}
	for i := range words {
		words[i].Text = opts.NormalizeText(words[i].Text)
	}

	table, text := newAnalyzer(cmd, logger).Reconstruct(words, canvas)
	return writeResult(cmd, table, text)
}

// tableJSON is the json output format.
type tableJSON struct {
	Rows    []ocrtable.RowBand    `json:"rows"`
	Columns []ocrtable.ColumnBand `json:"columns"`
	Words   []ocrtable.WordBox    `json:"words"`
	Text    string                `json:"text"`
}

func writeResult(cmd *cli.Command, table ocrtable.Table, text string) error {
	var out []byte
	switch format := cmd.String("format"); format {
	case "text":
		out = []byte(text)
	case "markdown":
		out = []byte(table.ToMarkdown())
	case "json":
		data, err := json.MarshalIndent(tableJSON{
			Rows:    table.Rows,
			Columns: table.Columns,
			Words:   table.Words,
			Text:    text,
		}, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode result")
		}
		out = data
	default:
		return errors.Errorf("unknown output format %q", format)
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return errors.Wrap(err, "failed to write output file")
	}
	fmt.Fprintf(os.Stderr, "Result written to %s\n", outputPath)
	return nil
}

func writeOverlay(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create overlay file")
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return errors.Wrap(err, "failed to encode overlay")
	}
	return nil
}

func newLogger(level string) *zap.Logger {
	zapLevel := zap.NewAtomicLevelAt(zapcore.WarnLevel)
	switch level {
	case "debug":
		zapLevel.SetLevel(zapcore.DebugLevel)
	case "info":
		zapLevel.SetLevel(zapcore.InfoLevel)
	case "error":
		zapLevel.SetLevel(zapcore.ErrorLevel)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stderr),
			zapLevel,
		),
	)
}

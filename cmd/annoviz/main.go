// Renders bounding boxes, class labels, scores, keypoints and skeletons from COCO or YOLO style
// annotations onto the annotated images.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sensorable/annoviz"
)

var (
	convertFrom inputFormat // The annotation source format.

	configFilePath  string // The optional YAML configuration file.
	imageDirPath    string // The input directory with the annotated images.
	imageOutDirPath string // The output directory for rendered images.
	labelPath       string // The input label directory or file, depending on the format.
	printOnly       bool   // Log the canonical boxes instead of rendering.

	filterLabels   []int   // Class ids to keep (empty keeps all).
	filterMinScore float64 // The min. score value.

	cfg *annoviz.Config // The rendering configuration, with flag overrides applied.
)

type inputFormat int

// The known annotation formats.
const (
	Unknown inputFormat = iota // If an unknown format is specified.
	COCO
	YOLO
)

func inputFormatFrom(s string) inputFormat {
	switch s {
	case "coco":
		return COCO
	case "yolo":
		return YOLO
	}
	return Unknown
}

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr, "  coco input options:\t-labels <file> [-images <dir>]")
		_, _ = fmt.Fprintln(os.Stderr, "  yolo input options:\t-labels <dir> -images <dir>")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	printUsageAndExit := func(msg ...interface{}) {
		log.Print(msg...)
		flag.Usage()
		os.Exit(1)
	}

	from := flag.String("from", "", "The annotation `format` {coco, yolo}")

	// Path arguments.
	flag.StringVar(&configFilePath, "config", configFilePath,
		"The `path` to a YAML rendering configuration file")
	flag.StringVar(&imageDirPath, "images", imageDirPath,
		"The `path` to the image input directory")
	flag.StringVar(&imageOutDirPath, "out", imageOutDirPath,
		"The `path` to the image output directory")
	flag.StringVar(&labelPath, "labels", labelPath,
		"The `path` to the label input file (coco) or directory (yolo)")
	flag.BoolVar(&printOnly, "print", printOnly,
		"Log the converted, normalized corner boxes instead of rendering images")

	// Conversion arguments. Unset flags keep the configuration file values.
	boxFormat := flag.String("box-format", "",
		"Overrides the box `encoding` of the input {yolo, coco, albu}")
	trim := flag.String("trim", "",
		"Clamp boxes into the image frame {true, false}; the default is true")

	// Filter arguments.
	labels := flag.String("filter-labels", "",
		"Comma-separated list of class ids to keep (empty string keeps all)")
	flag.Float64Var(&filterMinScore, "min-score", filterMinScore,
		"The minimum score to keep an annotation; annotations without a score are kept")

	// Output arguments.
	encoding := flag.String("image-enc", "", "The `encoding` for output images {jpg, png, webp}")
	quality := flag.Int("jpeg-quality", 0, "The quality to use when encoding JPEG or WebP [1, 100]")
	resize := flag.Float64("resize", 0, "The scale `factor` applied to the rendered images")

	// Parse and validate flags.
	flag.Parse()

	convertFrom = inputFormatFrom(*from)
	if convertFrom == Unknown {
		printUsageAndExit("Unsupported input format")
	}
	if labelPath == "" || (convertFrom == YOLO && imageDirPath == "") {
		printUsageAndExit("Missing label or image input path argument")
	}
	if !printOnly && imageOutDirPath == "" {
		printUsageAndExit("Missing image output directory path")
	}

	// Load the configuration and apply the overrides.
	cfg = annoviz.DefaultConfig()
	if configFilePath != "" {
		var err error
		if cfg, err = annoviz.LoadConfig(configFilePath); err != nil {
			printUsageAndExit(err)
		}
	}
	if *boxFormat != "" {
		f, err := annoviz.ParseFormat(*boxFormat)
		if err != nil {
			printUsageAndExit("Invalid -box-format: ", err)
		}
		cfg.BoxFormat = f
	}
	if *trim != "" {
		v, err := strconv.ParseBool(*trim)
		if err != nil {
			printUsageAndExit("Invalid -trim: ", *trim)
		}
		cfg.Trim = v
	}
	if *encoding != "" {
		cfg.Output.Encoding = *encoding
	}
	if *quality != 0 {
		cfg.Output.JPEGQuality = *quality
	}
	if *resize != 0 {
		cfg.Output.Resize = *resize
	}
	if err := cfg.Validate(); err != nil {
		printUsageAndExit("Invalid configuration: ", err)
	}

	if *labels != "" {
		for _, v := range strings.Split(*labels, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				printUsageAndExit("Invalid value in -filter-labels: ", v)
			}
			filterLabels = append(filterLabels, id)
		}
	}
	if filterMinScore < 0 || filterMinScore > 1 {
		printUsageAndExit("Invalid -min-score, must be in [0.0, 1.0]: ", filterMinScore)
	}

	// Clean path arguments.
	labelPath = filepath.Clean(labelPath)
	if imageDirPath != "" {
		imageDirPath = filepath.Clean(imageDirPath)
	}
	if imageOutDirPath != "" {
		imageOutDirPath = filepath.Clean(imageOutDirPath)
		if imageDirPath != "" && imageDirPath == imageOutDirPath {
			printUsageAndExit("The image input and output paths cannot be identical")
		}
	}
}

func main() {
	// Parse input.
	var data annoviz.AnnotatedImages
	var err error
	switch convertFrom {
	case COCO:
		data, err = annoviz.FromCOCOPersons(labelPath, imageDirPath)
	case YOLO:
		data, err = annoviz.FromYOLO(labelPath, imageDirPath)
	default:
		err = fmt.Errorf("unsupported input format")
	}
	if err != nil {
		log.Fatal("Failed to parse the input: ", err)
	}

	// Apply filters.
	if len(filterLabels) > 0 || filterMinScore > 0 {
		data.Filter(filterLabels, filterMinScore)
	}

	if printOnly {
		printBoxes(data)
		return
	}

	if err := data.Render(imageOutDirPath, cfg); err != nil {
		log.Fatal("Rendering failed: ", err)
	}

	log.Printf("Successfully rendered %d images to %s", len(data), imageOutDirPath)
}

// printBoxes logs the canonical boxes of every image.
func printBoxes(data annoviz.AnnotatedImages) {
	c := annoviz.Converter{Trim: cfg.Trim}
	for i := range data {
		d := &data[i]
		if cfg.BoxFormat != annoviz.FormatUnknown {
			d.Format = cfg.BoxFormat
		}
		boxes, err := d.Normalize(c)
		if err != nil {
			log.Printf("Skipping %q: %v", d.FilePath, err)
			continue
		}
		log.Printf("%s: %d boxes (%s -> albu)", d.FilePath, len(boxes), d.Format)
		for j, b := range boxes {
			log.Printf("  %d: [%.4f %.4f %.4f %.4f]", j, b.X0, b.Y0, b.X1, b.Y1)
		}
	}
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-geometry-mcp/internal/features"
	"github.com/ironsheep/image-geometry-mcp/internal/imaging"
	"github.com/ironsheep/image-geometry-mcp/internal/pipeline"
)

// applyOpts holds the flags of the apply command.
type applyOpts struct {
	config    string // TOML recipe
	image     string // input image
	mask      string // optional input label map
	boxes     string // optional JSON file with [[a, b, c, d], ...]
	boxFormat string // coordinate format of boxes
	out       string // output image; the extension picks the encoder
	maskOut   string // output label map
	boxesOut  string // output boxes JSON; empty means stdout
	overlay   string // optional overlay image
}

// boxesFile is the JSON written for transformed boxes.
type boxesFile struct {
	Format    string             `json:"format"`
	ImageSize features.ImageSize `json:"image_size"`
	Boxes     [][]float64        `json:"boxes"`
}

func newApplyCmd(st streams) *cobra.Command {
	opts := applyOpts{boxFormat: features.XYXY.String()}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run a TOML recipe over an image and its annotations",
		Example: `  geometry-mcp apply -c thumbnail.toml -i photo.jpg -o thumb.png
  geometry-mcp apply -c aug.toml -i img.png --mask labels.png --mask-out labels.out.png --boxes boxes.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), st, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML recipe with one [[step]] per operation")
	cmd.Flags().StringVarP(&opts.image, "image", "i", "", "input image (PNG, JPEG, GIF or WebP)")
	cmd.Flags().StringVar(&opts.mask, "mask", "", "input segmentation mask (grayscale label map)")
	cmd.Flags().StringVar(&opts.boxes, "boxes", "", "JSON file with bounding boxes as [[a, b, c, d], ...]")
	cmd.Flags().StringVar(&opts.boxFormat, "box-format", opts.boxFormat, "bounding box format: XYXY, XYWH or CXCYWH")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output image (.png, .jpg, .gif, .tif, .bmp or .webp)")
	cmd.Flags().StringVar(&opts.maskOut, "mask-out", "", "output mask (required with --mask)")
	cmd.Flags().StringVar(&opts.boxesOut, "boxes-out", "", "output boxes JSON (default: stdout)")
	cmd.Flags().StringVar(&opts.overlay, "overlay", "", "also write the result with the mask and boxes drawn on it")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runApply(ctx context.Context, st streams, opts applyOpts) error {
	logger := loggerFromContext(ctx)
	start := time.Now()

	if opts.mask != "" && opts.maskOut == "" {
		return fmt.Errorf("--mask-out is required with --mask")
	}
	format, err := features.ParseBoundingBoxFormat(opts.boxFormat)
	if err != nil {
		return err
	}

	recipe, err := pipeline.Load(opts.config)
	if err != nil {
		return err
	}
	logger.Debug("loaded recipe", "name", recipe.Name, "steps", recipe.Ops())

	src := imaging.SampleSource{ImagePath: opts.image, MaskPath: opts.mask, BoxFormat: format}
	if opts.boxes != "" {
		if src.Boxes, err = readBoxes(opts.boxes); err != nil {
			return err
		}
	}
	sample, err := imaging.LoadSample(imaging.NewImageCache(), src)
	if err != nil {
		return err
	}
	if err := recipe.Validate(sample.Kinds()...); err != nil {
		return err
	}

	out, err := recipe.Apply(ctx, sample)
	if err != nil {
		return err
	}

	img, _ := out.Image()
	rendered, err := imaging.FromTensor(img.Data())
	if err != nil {
		return err
	}
	if err := imaging.Save(opts.out, rendered); err != nil {
		return err
	}
	logger.Info("wrote image", "path", opts.out, "width", img.Size().Width, "height", img.Size().Height)

	if masks := out.Masks(); len(masks) > 0 {
		m, err := imaging.FromTensor(masks[0].Data())
		if err != nil {
			return err
		}
		if err := imaging.Save(opts.maskOut, m); err != nil {
			return err
		}
		logger.Info("wrote mask", "path", opts.maskOut)
	}

	if boxes := out.Boxes(); len(boxes) > 0 {
		if err := writeBoxes(st, opts.boxesOut, boxesFile{
			Format:    boxes[0].Format().String(),
			ImageSize: boxes[0].ImageSize(),
			Boxes:     imaging.BoxRows(boxes[0].Data()),
		}); err != nil {
			return err
		}
	}

	if opts.overlay != "" {
		o, err := imaging.Overlay(rendered, out.Masks(), out.Boxes(), imaging.OverlayOptions{})
		if err != nil {
			return err
		}
		if err := imaging.Save(opts.overlay, o); err != nil {
			return err
		}
		logger.Info("wrote overlay", "path", opts.overlay)
	}

	logger.Infof("Applied %d steps (%s)", len(recipe.Steps), time.Since(start).Round(time.Millisecond))
	return nil
}

func readBoxes(path string) ([][]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boxes: %w", err)
	}
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse boxes %s: %w", path, err)
	}
	return rows, nil
}

func writeBoxes(st streams, path string, f boxesFile) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = st.out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write boxes: %w", err)
	}
	return nil
}

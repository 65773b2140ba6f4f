package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/juho05/log"
	"github.com/nfnt/resize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/metaread/internal/errmsg"
	"github.com/llehouerou/metaread/internal/tags"
)

var errNoArt = errors.New("no embedded art")

type artFlags struct {
	output string
	size   uint
}

func newArtCommand(a *app) *cobra.Command {
	var f artFlags
	cmd := &cobra.Command{
		Use:   "art <file>",
		Short: "Export the embedded cover art of an audio file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runArt(cmd.Context(), cmd.OutOrStdout(), args[0], f)
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", `Output file, "-" for stdout (default: cover.<ext> next to the audio file)`)
	cmd.Flags().UintVar(&f.size, "size", 0, "Fit the image into a size x size box (0 keeps the original)")
	return cmd
}

func (a *app) runArt(ctx context.Context, stdout io.Writer, path string, f artFlags) error {
	t, err := a.reader.ResolveEssential(ctx, path)
	if err != nil {
		return err
	}
	if t.Art == nil {
		return errors.New(errmsg.FormatWith(errmsg.OpArtExport, path, errNoArt))
	}

	data := t.Art.Data
	if f.size > 0 {
		data, err = thumbnail(t.Art, f.size)
		if err != nil {
			return errors.New(errmsg.FormatWith(errmsg.OpArtExport, path, err))
		}
	}

	if f.output == "-" {
		_, err := stdout.Write(data)
		return err
	}
	out := f.output
	if out == "" {
		out = filepath.Join(filepath.Dir(path), "cover"+artExtension(t.Art.MIMEType))
	}
	if err := os.WriteFile(out, data, 0o644); err != nil { //nolint:gosec // cover art is not sensitive
		return errors.New(errmsg.FormatWith(errmsg.OpArtExport, out, err))
	}
	log.Infof("wrote %s", out)
	return nil
}

// thumbnail scales the picture down to fit in a size x size box while
// keeping its format. Pictures already small enough are returned as is.
func thumbnail(art *tags.Art, size uint) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(art.Data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", art.MIMEType, err)
	}
	bounds := img.Bounds()
	if uint(bounds.Dx()) <= size && uint(bounds.Dy()) <= size {
		return art.Data, nil
	}

	resized := resize.Thumbnail(size, size, img, resize.Lanczos3)

	var buf bytes.Buffer
	if format == "png" {
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func artExtension(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/bmp":
		return ".bmp"
	case "image/webp":
		return ".webp"
	}
	return ".jpg"
}

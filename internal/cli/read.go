package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/llehouerou/metaread/internal/reader"
	"github.com/llehouerou/metaread/internal/render"
	"github.com/llehouerou/metaread/internal/tags"
)

type readFlags struct {
	format   string
	generic  bool
	lyrics   bool
	accurate bool
	width    int
	template string
}

func newReadCommand(a *app) *cobra.Command {
	var f readFlags
	cmd := &cobra.Command{
		Use:   "read <file>...",
		Short: "Resolve and print the metadata of audio files.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRead(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, f)
		},
	}
	cmd.Flags().StringVarP(&f.format, "format", "f", "text", "Output format (text, json, yaml)")
	cmd.Flags().BoolVarP(&f.generic, "generic", "g", false, "Include generic metadata and lyrics")
	cmd.Flags().BoolVar(&f.lyrics, "lyrics", false, "Include lyrics")
	cmd.Flags().BoolVarP(&f.accurate, "accurate", "a", false, "Decode files whose duration is missing or estimated")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", `Print one line per file, e.g. "{track:2}. {artist} - {title}"`)
	cmd.Flags().IntVar(&f.width, "width", render.DefaultOptions().ValueWidth, "Truncate text values to this many cells (0 disables)")
	return cmd
}

func (a *app) runRead(ctx context.Context, stdout, stderr io.Writer, paths []string, f readFlags) error {
	format, err := render.ParseFormat(f.format)
	if err != nil {
		return err
	}
	var tpl *render.Template
	if f.template != "" {
		if tpl, err = render.ParseTemplate(f.template); err != nil {
			return err
		}
	}
	secondary := f.generic || f.lyrics || strings.Contains(f.template, "{generic.")

	failed := false
	ts := make([]*tags.Track, 0, len(paths))
	var decoding []<-chan struct{}
	slots := make(chan struct{}, a.cfg.DurationWorkers())
	for _, path := range paths {
		t, err := a.resolve(ctx, path, secondary)
		if err != nil {
			fmt.Fprintln(stderr, err)
			failed = true
			continue
		}
		ts = append(ts, t)
		if f.accurate && needsDecode(t) {
			decoding = append(decoding, a.scheduleDuration(ctx, t, slots))
		}
	}
	for _, done := range decoding {
		<-done
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	switch {
	case tpl != nil:
		err = tpl.WriteTracks(stdout, ts)
	case format == render.FormatJSON:
		err = render.WriteJSON(stdout, ts)
	case format == render.FormatYAML:
		err = render.WriteYAML(stdout, ts)
	default:
		err = render.NewText(render.Options{
			Generic:    f.generic,
			Lyrics:     f.generic || f.lyrics,
			ValueWidth: f.width,
		}).WriteTracks(stdout, ts)
	}
	if err != nil {
		return err
	}
	if failed {
		return errFailed
	}
	return nil
}

func (a *app) resolve(ctx context.Context, path string, secondary bool) (*tags.Track, error) {
	if secondary {
		return a.reader.Resolve(ctx, path)
	}
	return a.reader.ResolveEssential(ctx, path)
}

func needsDecode(t *tags.Track) bool {
	return reader.NeedsBruteForce(t) || !t.DurationIsAccurate()
}

// scheduleDuration decodes t in the background once a slot is free, so
// the remaining files resolve meanwhile. Failures keep the estimate.
func (a *app) scheduleDuration(ctx context.Context, t *tags.Track, slots chan struct{}) <-chan struct{} {
	select {
	case slots <- struct{}{}:
	case <-ctx.Done():
		done := make(chan struct{})
		close(done)
		return done
	}
	done := a.reader.Schedule(ctx, t, nil)
	go func() {
		<-done
		<-slots
	}()
	return done
}

package cli

import (
	"context"
	"io"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/llehouerou/metaread/internal/library"
	"github.com/llehouerou/metaread/internal/render"
	"github.com/llehouerou/metaread/internal/tags"
)

const barTemplate = `{{ string . "prefix" }} {{ counters . }} {{ bar . }} {{ percent . }} {{ etime . }}`

type scanFlags struct {
	format     string
	generic    bool
	list       bool
	noProgress bool
}

func newScanCommand(a *app) *cobra.Command {
	var f scanFlags
	cmd := &cobra.Command{
		Use:   "scan <path>...",
		Short: "Resolve every music file under the given files and directories.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScan(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, f)
		},
	}
	cmd.Flags().StringVarP(&f.format, "format", "f", "text", "Output format (text, json, yaml)")
	cmd.Flags().BoolVarP(&f.generic, "generic", "g", false, "Resolve generic metadata and lyrics")
	cmd.Flags().BoolVarP(&f.list, "list", "l", false, "List the tracks after the summary")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "Hide the progress bar")
	return cmd
}

func (a *app) runScan(ctx context.Context, stdout, stderr io.Writer, paths []string, f scanFlags) error {
	format, err := render.ParseFormat(f.format)
	if err != nil {
		return err
	}

	list := a.newList(f.generic)
	progress := make(chan library.Progress)

	var bar *progressBar
	if !f.noProgress {
		bar = newProgressBar(stderr)
	}
	done := make(chan int, 1)
	go func() {
		files := 0
		for p := range progress {
			if p.Phase == library.PhaseDiscovered {
				files = p.Total
			}
			bar.update(p)
		}
		bar.finish()
		done <- files
	}()

	ts, err := list.AddFiles(ctx, paths, progress)
	files := <-done
	if err != nil {
		return err
	}

	switch format {
	case render.FormatJSON:
		return render.WriteJSON(stdout, ts)
	case render.FormatYAML:
		return render.WriteYAML(stdout, ts)
	}

	r := render.NewText(render.Options{Generic: f.generic, ValueWidth: render.DefaultOptions().ValueWidth})
	if _, err := io.WriteString(stdout, r.Summary(len(ts), countPending(ts), files-len(ts))); err != nil {
		return err
	}
	if f.list {
		if _, err := io.WriteString(stdout, r.List(ts)); err != nil {
			return err
		}
	}
	return nil
}

func countPending(ts []*tags.Track) int {
	n := 0
	for _, t := range ts {
		if !t.DurationIsAccurate() {
			n++
		}
	}
	return n
}

// progressBar follows the phases of an AddFiles call. A nil bar ignores
// every update.
type progressBar struct {
	bar   *pb.ProgressBar
	phase string
}

func newProgressBar(w io.Writer) *progressBar {
	bar := pb.New(0)
	bar.SetWriter(w)
	bar.SetTemplateString(barTemplate)
	bar.Set("prefix", "Reading tags")
	return &progressBar{bar: bar}
}

func (b *progressBar) update(p library.Progress) {
	if b == nil {
		return
	}
	switch p.Phase {
	case library.PhaseDiscovered:
		b.bar.SetTotal(int64(p.Total))
		b.bar.Start()
	case library.PhaseTracksAdded:
		b.bar.SetCurrent(int64(p.Current))
	case library.PhaseDurations:
		if b.phase != library.PhaseDurations {
			b.bar.Set("prefix", "Decoding durations")
			b.bar.SetTotal(int64(p.Total))
		}
		b.bar.SetCurrent(int64(p.Current))
	}
	b.phase = p.Phase
}

func (b *progressBar) finish() {
	if b == nil || !b.bar.IsStarted() {
		return
	}
	b.bar.Finish()
}

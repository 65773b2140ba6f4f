package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/llehouerou/metaread/internal/render"
)

func newChainCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chain <file>",
		Short: "Show how each tag dialect of the file's chain read its tags.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.reader.Chain(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), render.NewText(render.Options{}).Chain(args[0], entries))
			return err
		},
	}
}

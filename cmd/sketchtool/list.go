package main

import (
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/countmin/madoka"
	"github.com/countmin/madoka/internal/backing"
)

func newListCommand(log *zap.SugaredLogger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list PATH",
		Short: "Print a sketch file's header fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			s, err := madoka.Open(path, backing.ReadOnly)
			if err != nil {
				log.Errorw("open failed", "path", path, "error", err)
				return err
			}
			defer s.Close()

			mode := "EXACT_MODE"
			if s.IsApprox() {
				mode = "APPROX_MODE"
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendRow(table.Row{"Path", path})
			t.AppendRow(table.Row{"Width", s.Width()})
			t.AppendRow(table.Row{"Depth", madoka.Depth})
			t.AppendRow(table.Row{"MaxValue", s.MaxValue()})
			t.AppendRow(table.Row{"Seed", s.Seed()})
			t.AppendRow(table.Row{"ValueSize", s.ValueSize()})
			t.AppendRow(table.Row{"FileSize", humanize.Bytes(s.FileSize())})
			t.AppendRow(table.Row{"Mode", mode})
			t.Render()
			return nil
		},
	}
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/countmin/madoka"
	"github.com/countmin/madoka/internal/backing"
)

func newGetCommand(log *zap.SugaredLogger) *cobra.Command {
	var preload bool

	cmd := &cobra.Command{
		Use:   "get PATH [FILE...]",
		Short: "Print keys with their estimated frequency",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, files := args[0], args[1:]
			flags := backing.ReadOnly
			if preload {
				flags |= backing.Preload
			}
			s, err := madoka.Open(path, flags)
			if err != nil {
				log.Errorw("open failed", "path", path, "error", err)
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			return keyLines(files, func(key string) error {
				v := s.Get([]byte(key))
				_, err := fmt.Fprintf(out, "%s\t%d\n", key, v)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&preload, "preload", "p", false, "pull the whole sketch into memory before serving")
	return cmd
}

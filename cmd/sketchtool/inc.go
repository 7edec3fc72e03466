package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/countmin/madoka"
	"github.com/countmin/madoka/internal/backing"
)

func newIncCommand(log *zap.SugaredLogger) *cobra.Command {
	var preload bool

	cmd := &cobra.Command{
		Use:   "inc PATH [FILE...]",
		Short: "Increment the estimated frequency of each given key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, files := args[0], args[1:]
			flags := backing.Writable
			if preload {
				flags |= backing.Preload
			}
			s, err := madoka.Open(path, flags)
			if err != nil {
				log.Errorw("open failed", "path", path, "error", err)
				return err
			}
			defer s.Close()

			return keyLines(files, func(key string) error {
				s.Inc([]byte(key))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&preload, "preload", "p", false, "pull the whole sketch into memory before serving")
	return cmd
}

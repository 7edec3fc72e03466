package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/countmin/madoka"
	"github.com/countmin/madoka/internal/backing"
)

func newAddCommand(log *zap.SugaredLogger) *cobra.Command {
	var preload bool

	cmd := &cobra.Command{
		Use:   "add PATH [FILE...]",
		Short: "Add delta values (tab-separated) to each given key",
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

			return keyLines(files, func(line string) error {
				key, delta, err := splitKeyValue(line)
				if err != nil {
					log.Errorw("malformed line", "line", line, "error", err)
					return err
				}
				s.Add([]byte(key), delta)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&preload, "preload", "p", false, "pull the whole sketch into memory before serving")
	return cmd
}

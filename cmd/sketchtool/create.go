package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/countmin/madoka"
	"github.com/countmin/madoka/internal/backing"
)

func newCreateCommand(log *zap.SugaredLogger) *cobra.Command {
	var width, maxValue, seed uint64
	var truncate bool

	cmd := &cobra.Command{
		Use:   "create PATH",
		Short: "Create a new sketch file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			flags := backing.Create
			if truncate {
				flags |= backing.Truncate
			}
			s, err := madoka.Create(width, maxValue, path, flags, seed)
			if err != nil {
				log.Errorw("create failed", "path", path, "error", err)
				return err
			}
			defer s.Close()
			return nil
		},
	}

	cmd.Flags().Uint64VarP(&width, "width", "w", 0, "number of cells per row (0 selects the default)")
	cmd.Flags().Uint64VarP(&maxValue, "max-value", "m", 0, "maximum representable value (0 selects approximate mode)")
	cmd.Flags().Uint64VarP(&seed, "seed", "S", 0, "hash and PRNG seed")
	cmd.Flags().BoolVarP(&truncate, "truncate", "t", false, "overwrite an existing file")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "In-game commands",
	}

	cmd.AddCommand(newGameRollCmd())
	cmd.AddCommand(newGameMoveCmd())

	return cmd
}

func newGameRollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roll <room>",
		Short: "Roll the dice (on your turn)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RollResult

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/roll", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameMoveCmd() *cobra.Command {
	var (
		piece int
		die   int
		both  bool
	)

	cmd := &cobra.Command{
		Use:   "move <room>",
		Short: "Move a piece with one die, or both as a sum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if die <= 0 {
				return fmt.Errorf("--die is required and must be positive")
			}

			req := map[string]any{
				"piece_id": piece,
				"die":      die,
			}
			if both {
				req["uses_both"] = true
			}

			var result MoveResult

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/move", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&piece, "piece", 0, "Piece ID to move")
	cmd.Flags().IntVar(&die, "die", 0, "Die value to apply (the sum when --both is set)")
	cmd.Flags().BoolVar(&both, "both", false, "Consume both dice as a single sum move")
	_ = cmd.MarkFlagRequired("die")

	return cmd
}

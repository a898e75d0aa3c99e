package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomStartCmd())
	cmd.AddCommand(newRoomRematchCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var (
		bet           int64
		currency      string
		pieces        int
		autoExit      bool
		variant       string
		teamMode      bool
		color         string
		forcedCapture bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"bet": bet}
			if currency != "" {
				req["bet_currency"] = currency
			}
			if pieces > 0 {
				req["piece_count"] = pieces
			}
			if autoExit {
				req["auto_exit"] = "auto"
			}
			if variant != "" {
				req["variant"] = variant
			}
			if teamMode {
				req["team_mode"] = true
			}
			if color != "" {
				req["host_color"] = color
			}
			if forcedCapture {
				req["forced_capture"] = true
			}

			var result Room

			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&bet, "bet", 0, "Per-seat ante in the bet currency")
	cmd.Flags().StringVar(&currency, "currency", "", "Bet currency (default: your wallet currency)")
	cmd.Flags().IntVar(&pieces, "pieces", 0, "Pieces per player: 2, 4, 6 or 8 (default: 4)")
	cmd.Flags().BoolVar(&autoExit, "auto-exit", false, "Seed pieces on the start cell instead of requiring exit rolls")
	cmd.Flags().StringVar(&variant, "variant", "", "Bonus variant: classic or prizeDistance")
	cmd.Flags().BoolVar(&teamMode, "teams", false, "Play opposite seats as partners")
	cmd.Flags().StringVar(&color, "color", "", "Host color: yellow, blue, red or green")
	cmd.Flags().BoolVar(&forcedCapture, "forced-capture", false, "Penalize skipped captures")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <id>",
		Short: "Take an open seat in a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/join", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <id>",
		Short: "Leave a room (mid-game this forfeits)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/leave", id), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left room %s", id))
			return nil
		},
	}
}

func newRoomStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start the game (host only; collects the antes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/start", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomRematchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rematch",
		Short: "Post-game rematch commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm you are in for a rematch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/rematch/confirm", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "start <id>",
		Short: "Deal the rematch (winner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/rematch/start", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	})

	return cmd
}

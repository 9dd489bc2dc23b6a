package main

import (
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var roomID int64

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Push the ledger's availability for one room, or for every room, to the room registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			var result any
			if roomID > 0 {
				available, err := a.service.UpdateRoomAvailability(ctx, roomID, true)
				if err != nil {
					return err
				}
				result = map[string]any{"roomId": roomID, "available": available}
			} else {
				summary, err := a.service.ReconcileAllRooms(ctx)
				if err != nil {
					return err
				}
				result = summary
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().Int64Var(&roomID, "room", 0, "room id to reconcile; 0 reconciles every room")
	return cmd
}

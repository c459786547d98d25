package cli

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/triviaduel/internal/model"
)

// watchFrame mirrors the socket envelope for display purposes
type watchFrame struct {
	Event model.EventName `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var nickname string
	var creator bool

	cmd := &cobra.Command{
		Use:   "watch <room-id>",
		Short: "Join a room and print its event stream",
		Long: "Joins the given room over the duel socket and prints every event " +
			"as it arrives, until the game ends or the command is interrupted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID := args[0]

			conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), opts.client().SocketURL(), nil)
			if err != nil {
				return fmt.Errorf("dialing duel socket: %w", err)
			}
			defer conn.Close()

			join := watchFrame{Event: model.EventJoinDuel}
			join.Data, err = json.Marshal(map[string]any{
				"roomId":    roomID,
				"nickname":  nickname,
				"isCreator": creator,
			})
			if err != nil {
				return err
			}
			if err := conn.WriteJSON(join); err != nil {
				return fmt.Errorf("joining room: %w", err)
			}

			// Drop the socket when the context is cancelled so the read
			// loop unblocks
			go func() {
				<-cmd.Context().Done()
				_ = conn.Close()
			}()

			for {
				var frame watchFrame
				if err := conn.ReadJSON(&frame); err != nil {
					if cmd.Context().Err() != nil {
						return nil
					}
					return err
				}

				if err := printJSON(cmd.OutOrStdout(), frame); err != nil {
					return err
				}

				switch frame.Event {
				case model.EventGameOver:
					return nil
				case model.EventRoomNotFound:
					return fmt.Errorf("room %s not found", roomID)
				case model.EventRoomFull:
					return fmt.Errorf("room %s is full", roomID)
				}
			}
		},
	}

	cmd.Flags().StringVar(&nickname, "nickname", "observer", "nickname to join with")
	cmd.Flags().BoolVar(&creator, "creator", false, "join as the room creator")
	return cmd
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var jsonOutput bool
	var name string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch live queue updates over WebSocket",
		Long: `Connect to the server's WebSocket endpoint and print queue updates
in real-time. The connection joins the queue like any other client, so
the watcher appears in the roster (and may be seated if slots are open).

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchQueue(name, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().StringVar(&name, "name", "", "Display name to announce after connecting")

	return cmd
}

// serverMessage is the envelope for everything the server pushes
type serverMessage struct {
	Action   string            `json:"action"`
	ClientID string            `json:"clientId,omitempty"`
	Data     []wireRosterEntry `json:"data,omitempty"`
}

type wireRosterEntry struct {
	ClientID    string `json:"clientId"`
	DisplayName string `json:"displayName"`
	Status      string `json:"status"`
	Marker      string `json:"marker,omitempty"`
}

func watchQueue(name string, jsonOutput bool) error {
	url := client.WebSocketURL("/ws")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if name != "" {
		msg := map[string]string{"action": "setName", "username": name}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("failed to send name: %w", err)
		}
	}

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		// A close frame lets the server remove us cleanly
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(100 * time.Millisecond)
		_ = conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				if !jsonOutput {
					fmt.Println("Disconnected")
				}
				return nil
			}
			// Interrupt closes the connection out from under ReadMessage
			if strings.Contains(err.Error(), "use of closed network connection") {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		printServerMessage(data, jsonOutput)
	}
}

func printServerMessage(data []byte, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(string(data))
		return
	}

	var msg serverMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		fmt.Println(string(data))
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	switch msg.Action {
	case "connected":
		fmt.Printf("[%s] connected as %s\n", timestamp, msg.ClientID)
	case "queueUpdate":
		fmt.Printf("[%s] queue update (%d clients):\n", timestamp, len(msg.Data))
		for _, e := range msg.Data {
			name := e.DisplayName
			if name == "" {
				name = "(unnamed)"
			}
			if e.Status == "active" {
				fmt.Printf("  %s  %s (%s)\n", e.Marker, name, e.ClientID)
			} else {
				fmt.Printf("  -  %s (%s) waiting\n", name, e.ClientID)
			}
		}
	default:
		fmt.Printf("[%s] %s\n", timestamp, string(data))
	}
}

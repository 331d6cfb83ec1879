package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Roster:
		o.printRoster(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// RosterEntry response type (matches API)
type RosterEntry struct {
	ClientID    string `json:"client_id"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
	Marker      string `json:"marker,omitempty"`
	QueuedAt    string `json:"queued_at,omitempty"`
}

// Roster response type
type Roster struct {
	Clients []RosterEntry `json:"clients"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoster(r Roster) {
	if len(r.Clients) == 0 {
		fmt.Println("No clients connected")
		return
	}

	fmt.Printf("Clients (%d):\n", len(r.Clients))
	for _, c := range r.Clients {
		name := c.DisplayName
		if name == "" {
			name = "(unnamed)"
		}
		if c.Status == "active" {
			fmt.Printf("  %s  %s (%s)\n", c.Marker, name, c.ClientID)
		} else {
			fmt.Printf("  -  %s (%s) waiting\n", name, c.ClientID)
		}
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

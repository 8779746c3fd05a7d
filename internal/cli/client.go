package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:8080"

// RegisterCmd returns the register command, which creates a user over the
// HTTP API.
func RegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <user-id> [name]",
		Short: "Register a user",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, _ := cmd.Flags().GetString("server")

			payload := map[string]string{"user_id": args[0]}
			if len(args) > 1 {
				payload["name"] = args[1]
			}

			var resp struct {
				Message string `json:"message"`
				UserID  string `json:"user_id"`
			}
			if err := postJSON(serverURL+"/users/", payload, &resp); err != nil {
				return err
			}

			fmt.Printf("%s (%s)\n", resp.Message, resp.UserID)
			return nil
		},
	}
	cmd.Flags().String("server", defaultServerURL, "API server base URL")
	return cmd
}

// ChatCmd returns the chat command, which sends one message for a user.
func ChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <user-id> <message>",
		Short: "Send a chat message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, _ := cmd.Flags().GetString("server")

			var resp struct {
				Message       string `json:"message"`
				Source        string `json:"source"`
				ModelResponse string `json:"model_response"`
			}
			if err := postJSON(serverURL+"/chat/"+args[0], map[string]string{"text": args[1]}, &resp); err != nil {
				return err
			}

			fmt.Println(resp.ModelResponse)
			if resp.Source != "" {
				fmt.Printf("\nSources: %s\n", resp.Source)
			}
			return nil
		},
	}
	cmd.Flags().String("server", defaultServerURL, "API server base URL")
	return cmd
}

// HistoryCmd returns the history command, which prints a user's
// conversation history.
func HistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <user-id>",
		Short: "Show a user's conversation history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, _ := cmd.Flags().GetString("server")

			var resp struct {
				Messages []struct {
					Message       string `json:"message"`
					Timestamp     string `json:"timestamp"`
					ModelResponse string `json:"model_response"`
				} `json:"messages"`
			}
			if err := getJSON(serverURL+"/history/"+args[0], &resp); err != nil {
				return err
			}

			if len(resp.Messages) == 0 {
				fmt.Println("no conversation history")
				return nil
			}
			for _, m := range resp.Messages {
				fmt.Printf("[%s] > %s\n%s\n\n", m.Timestamp, m.Message, m.ModelResponse)
			}
			return nil
		},
	}
	cmd.Flags().String("server", defaultServerURL, "API server base URL")
	return cmd
}

var httpClient = &http.Client{Timeout: 120 * time.Second}

func postJSON(url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := httpClient.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func getJSON(url string, out interface{}) error {
	resp, err := httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	return json.Unmarshal(data, out)
}

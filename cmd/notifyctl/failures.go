package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var failuresLimit int

var failuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "List recent delivery failures from the audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 30 * time.Second}
		url := fmt.Sprintf("%s/v1/failures?limit=%d", viper.GetString("server"), failuresLimit)

		resp, err := client.Get(url)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, body, "", "  "); err != nil {
			fmt.Println(string(body))
			return nil
		}
		fmt.Println(pretty.String())
		return nil
	},
}

func init() {
	failuresCmd.Flags().IntVar(&failuresLimit, "limit", 50, "maximum rows to return")
	rootCmd.AddCommand(failuresCmd)
}

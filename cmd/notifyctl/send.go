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

	"github.com/nimbapay/notify/internal/dispatch"
)

var (
	sendBody    string
	sendContext string
	sendSMS     []string
	sendEmail   []string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a test fan-out through the dispatcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(sendSMS) == 0 && len(sendEmail) == 0 {
			return fmt.Errorf("at least one --sms or --email recipient is required")
		}

		req := dispatch.Request{Body: sendBody, Context: sendContext}
		for _, addr := range sendSMS {
			req.Recipients = append(req.Recipients, dispatch.Recipient{Address: addr, Channel: dispatch.SMS})
		}
		for _, addr := range sendEmail {
			req.Recipients = append(req.Recipients, dispatch.Recipient{Address: addr, Channel: dispatch.Email})
		}

		payload, err := json.Marshal(req)
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: 60 * time.Second}
		resp, err := client.Post(viper.GetString("server")+"/v1/dispatch", "application/json", bytes.NewReader(payload))
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
	sendCmd.Flags().StringVar(&sendBody, "body", "", "message body (required)")
	sendCmd.Flags().StringVar(&sendContext, "context", "notifyctl-test", "context label attached to the dispatch")
	sendCmd.Flags().StringSliceVar(&sendSMS, "sms", nil, "SMS recipient, repeatable")
	sendCmd.Flags().StringSliceVar(&sendEmail, "email", nil, "email recipient, repeatable")
	sendCmd.MarkFlagRequired("body")
	rootCmd.AddCommand(sendCmd)
}

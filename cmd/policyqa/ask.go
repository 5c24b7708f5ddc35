package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	policyqa "github.com/kailas-cloud/policyqa/pkg/sdk"
)

var (
	askServer   string
	askTopK     int
	askFollowUp string
	askJSON     bool
	askTimeout  time.Duration
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a running server a policy question",
	Long: `Sends the question to the /ask endpoint of a running policyqa server and
prints the answer with its citations.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askServer, "server", "s", "http://localhost:8000", "policyqa server URL")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (server default when 0)")
	askCmd.Flags().StringVar(&askFollowUp, "follow-up", "", "previous conversation to include in the prompt")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the raw response as JSON")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "request timeout")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	client, err := policyqa.New(askServer, policyqa.WithTimeout(askTimeout))
	if err != nil {
		return err
	}

	req := policyqa.AskRequest{Question: strings.Join(args, " ")}
	if askTopK > 0 {
		req.TopK = &askTopK
	}
	if askFollowUp != "" {
		req.FollowUpContext = &askFollowUp
	}

	resp, err := client.Ask(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printAnswer(cmd, resp)
	return nil
}

func printAnswer(cmd *cobra.Command, resp policyqa.AskResponse) {
	cmd.Println(resp.Answer)
	cmd.Println()
	cmd.Printf("Confidence: %s\n", resp.Confidence)

	if len(resp.Citations) > 0 {
		cmd.Println("Sources:")
		for i, c := range resp.Citations {
			section := ""
			if c.Section != nil && *c.Section != "" {
				section = " / " + *c.Section
			}
			cmd.Printf("  [%d] %s%s (%s)\n", i+1, c.Title, section, c.Category)
		}
	}

	if resp.Disclaimer != "" {
		cmd.Println()
		cmd.Println(resp.Disclaimer)
	}
}

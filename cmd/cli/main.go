package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "splitpot-cli",
		Short: "Splitpot CLI tool",
		Long:  `A command line interface for interacting with the Splitpot API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Splitpot API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	balancesCmd := &cobra.Command{
		Use:   "balances <group-id>",
		Short: "Show a group's balance sheet",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/groups/" + args[0] + "/balances")
		},
	}

	suggestCmd := &cobra.Command{
		Use:   "suggest <group-id>",
		Short: "Suggest the minimal transfers that settle a group",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/groups/" + args[0] + "/settle-plan")
		},
		Args: cobra.ExactArgs(1),
	}

	verifyCmd := &cobra.Command{
		Use:   "verify <group-id>",
		Short: "Check a group's ledger consistency",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			verifyGroup(args[0])
		},
	}

	expenseCmd := &cobra.Command{
		Use:   "expense <group-id>",
		Short: "Record an equal-split expense",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			description, _ := cmd.Flags().GetString("description")
			amount, _ := cmd.Flags().GetString("amount")
			currency, _ := cmd.Flags().GetString("currency")
			payer, _ := cmd.Flags().GetString("payer")
			participants, _ := cmd.Flags().GetStringSlice("participants")

			postJSON("/api/v1/groups/"+args[0]+"/expenses", map[string]any{
				"description":  description,
				"amount":       amount,
				"currency":     currency,
				"payer_id":     payer,
				"created_by":   payer,
				"participants": participants,
				"split_type":   "equal",
			})
		},
	}
	expenseCmd.Flags().String("description", "", "Expense description")
	expenseCmd.Flags().String("amount", "", "Amount in major units, e.g. 12.50")
	expenseCmd.Flags().String("currency", "USD", "Currency code")
	expenseCmd.Flags().String("payer", "", "Paying user ID")
	expenseCmd.Flags().StringSlice("participants", nil, "Participant user IDs")

	settleCmd := &cobra.Command{
		Use:   "settle <group-id>",
		Short: "Record a payment between two members",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			amount, _ := cmd.Flags().GetString("amount")
			currency, _ := cmd.Flags().GetString("currency")

			postJSON("/api/v1/groups/"+args[0]+"/settlements", map[string]any{
				"from_user_id": from,
				"to_user_id":   to,
				"amount":       amount,
				"currency":     currency,
			})
		},
	}
	settleCmd.Flags().String("from", "", "Paying user ID")
	settleCmd.Flags().String("to", "", "Receiving user ID")
	settleCmd.Flags().String("amount", "", "Amount in major units")
	settleCmd.Flags().String("currency", "USD", "Currency code")

	rootCmd.AddCommand(balancesCmd, suggestCmd, verifyCmd, expenseCmd, settleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func getJSON(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func postJSON(path string, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}

func verifyGroup(groupID string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/groups/" + groupID + "/verify")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Verification FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if balanced, ok := result["balanced"].(bool); ok && balanced {
		fmt.Println("Verification PASSED")
	} else {
		fmt.Println("Verification FAILED")
	}
	fmt.Printf("Expenses: %v, Settlements: %v\n", result["expense_count"], result["settlement_count"])
	if broken, ok := result["broken_expenses"].([]any); ok && len(broken) > 0 {
		fmt.Printf("Broken expenses: %v\n", broken)
		os.Exit(1)
	}
}

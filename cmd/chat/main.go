// Command chat is a terminal client for talking to a running Panda Sushi
// server. By default it sends raw text through the /dialogflow-query proxy;
// with -intent it posts a webhook event directly, which needs no NLU
// credentials.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"pandasushi/internal/dispatch"
)

var (
	baseURL   = flag.String("url", envOr("PANDASUSHI_URL", "http://localhost:3000"), "Server base URL")
	sessionID = flag.String("session", "chat-cli", "Session identifier")
	intent    = flag.String("intent", "", "Post directly to /webhook with this intent name instead of using the NLU proxy")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Println("Panda Sushi chat — type your order, Ctrl-D to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		reply, err := send(client, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(reply)
	}
}

func send(client *http.Client, text string) (string, error) {
	if *intent != "" {
		return sendWebhook(client, text)
	}
	return sendQuery(client, text)
}

// sendWebhook posts a pre-classified event straight to the webhook.
func sendWebhook(client *http.Client, text string) (string, error) {
	req := dispatch.WebhookRequest{
		Session: "projects/panda-hinl/agent/sessions/" + *sessionID,
		QueryResult: dispatch.QueryResult{
			QueryText: text,
			Intent:    dispatch.IntentRef{DisplayName: *intent},
		},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	resp, err := client.Post(*baseURL+"/webhook", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out dispatch.WebhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Text(), nil
}

// sendQuery routes text through the server's NLU proxy and digs the
// fulfillment text out of the platform response.
func sendQuery(client *http.Client, text string) (string, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", err
	}

	resp, err := client.Post(*baseURL+"/dialogflow-query", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server answered %s", resp.Status)
	}

	var out struct {
		QueryResult struct {
			FulfillmentText string `json:"fulfillmentText"`
		} `json:"queryResult"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.QueryResult.FulfillmentText == "" {
		return "(no reply)", nil
	}
	return out.QueryResult.FulfillmentText, nil
}

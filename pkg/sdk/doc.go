// Package policyqa provides a Go client for the HR policy assistant HTTP API.
//
//	client, _ := policyqa.New("http://localhost:8000", policyqa.WithTimeout(30*time.Second))
//	res, _ := client.Ingest(ctx)
//	ans, _ := client.Ask(ctx, policyqa.AskRequest{Question: "How many vacation days do I get?"})
//	fmt.Println(ans.Answer, ans.Confidence)
//
// Non-2xx responses are returned as *APIError. Use errors.Is with the
// sentinel errors to branch on the error code.
package policyqa

/*
Package clientsdk is a Go client for the clientdesk API.

SDKClient covers the public endpoints (token issuance, health probes) and
creates a Session, which carries the access/refresh pair and rotates it
transparently before the access token expires:

	client := clientsdk.NewSDKClient("http://localhost:8080")

	session, err := client.Authenticate(ctx, "admin", "s3cret-password")
	if err != nil {
		return err
	}
	defer session.Logout(ctx)

	created, err := session.CreateClient(ctx, clientsdk.CreateClientRequest{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
	})

	page, err := session.ListClients(ctx, clientsdk.ListClientsOptions{
		Search:   "ada",
		Ordering: "-created_at",
	})

Non-2xx responses are returned as *APIError. Validation failures carry the
per-field messages in APIError.Details.
*/
package clientsdk

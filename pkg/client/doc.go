// Package client is a small HTTP client for the poolserve admin API.
//
// It is what `poolserve status` uses to print the pool state of a running
// process:
//
//	c, err := client.NewClient("127.0.0.1:8080", 5*time.Second)
//	status, err := c.PoolStatus(ctx)
//
// Transport failures and 502/503 answers wrap ErrAdminUnavailable.
package client

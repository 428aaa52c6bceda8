// client_integration_test.go
//go:build integration
// +build integration

package client

import (
	"net/http"
	"testing"
)

var c = Client{
	Addr:   "http://localhost:4000",
	Client: http.Client{},
}

func TestCreateUserAgainstRunningServer(t *testing.T) {
	u, err := c.CreateUser("integration")
	if err != nil || u == nil || u.Username != "integration" {
		t.Fail()
	}
}

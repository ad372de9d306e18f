// Command authctl is an operator CLI for the auth service HTTP API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte, headers map[string]string) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func main() {
	var (
		baseURL = envOr("AUTHSVC_URL", "http://localhost:8080")
		out     = envOr("AUTHSVC_OUT", "text")
	)

	root := &cobra.Command{
		Use:   "authctl",
		Short: "Operator CLI for the auth service",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "service base URL (env AUTHSVC_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "output format: json|text")

	cl := &client{BaseURL: baseURL, OutFormat: out, HTTP: &http.Client{Timeout: 30 * time.Second}}
	cobra.OnInitialize(func() {
		cl.BaseURL = baseURL
		cl.OutFormat = out
	})

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check service and backend health",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/healthz", nil, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("unhealthy: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "text" {
				fmt.Println("ok")
				return nil
			}
			cl.print(status, body)
			return nil
		},
	}

	tokenCmd := &cobra.Command{Use: "token", Short: "Token operations"}

	var validateToken string
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a token's signature and expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if validateToken == "" {
				return fmt.Errorf("--token is required")
			}
			status, body, err := cl.do("GET", "/api/auth/validate", nil, bearer(validateToken))
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("validate failed: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	validateCmd.Flags().StringVar(&validateToken, "token", "", "token to inspect")

	var refreshToken string
	refreshCmd := &cobra.Command{
		Use:   "refresh",
		Short: "Rotate a refresh token into a fresh pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			if refreshToken == "" {
				return fmt.Errorf("--token is required")
			}
			b, _ := json.Marshal(map[string]string{"refreshToken": refreshToken})
			status, body, err := cl.do("POST", "/api/auth/refresh", b, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("refresh failed: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	refreshCmd.Flags().StringVar(&refreshToken, "token", "", "refresh token")

	var revokeAccess, revokeRefresh string
	revokeCmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke an access token (and optionally a refresh token)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if revokeAccess == "" {
				return fmt.Errorf("--access is required")
			}
			var b []byte
			if revokeRefresh != "" {
				b, _ = json.Marshal(map[string]string{"refreshToken": revokeRefresh})
			}
			status, body, err := cl.do("POST", "/api/auth/logout", b, bearer(revokeAccess))
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("revoke failed: status=%d body=%s", status, string(body))
			}
			fmt.Println("revoked")
			return nil
		},
	}
	revokeCmd.Flags().StringVar(&revokeAccess, "access", "", "access token to revoke")
	revokeCmd.Flags().StringVar(&revokeRefresh, "refresh", "", "refresh token to revoke (optional)")

	var meToken string
	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Show the profile behind an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if meToken == "" {
				return fmt.Errorf("--token is required")
			}
			status, body, err := cl.do("GET", "/api/users/me", nil, bearer(meToken))
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("me failed: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}
	meCmd.Flags().StringVar(&meToken, "token", "", "access token")

	tokenCmd.AddCommand(validateCmd, refreshCmd, revokeCmd)
	root.AddCommand(healthCmd, tokenCmd, meCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

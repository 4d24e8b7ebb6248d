package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Login exchanges admin credentials for the backend's access token. The
// backend's failure message (e.g. "Invalid credentials") is surfaced
// verbatim through the returned *APIError.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("Login: json.Marshal: %w", err)
	}

	rbody, err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/users/login", "", body, "Failed to log in.")
	if err != nil {
		return "", err
	}

	var reply struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(rbody, &reply); err != nil {
		return "", fmt.Errorf("Login: json.Unmarshal: %w", err)
	}
	if reply.AccessToken == "" {
		return "", fmt.Errorf("Login: backend returned no access token")
	}

	return reply.AccessToken, nil
}

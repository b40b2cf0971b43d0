package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/soyeahso/sidebar/internal/config"
	"github.com/soyeahso/sidebar/internal/version"
)

// serverURL is where a local `sidebar serve` with cfg can be reached.
func serverURL(cfg config.Config) string {
	host := "127.0.0.1"
	if cfg.Server.Bind == "custom" && cfg.Server.CustomBindHost != "" && cfg.Server.CustomBindHost != "0.0.0.0" {
		host = cfg.Server.CustomBindHost
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(cfg.Server.Port))
}

// getJSON fetches url and decodes a 200 response into v.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// statusError turns a non-2xx response into an error carrying its body.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	return fmt.Errorf("%s: %s", resp.Status, msg)
}

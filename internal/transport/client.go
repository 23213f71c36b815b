// Package transport implements the HTTP client for the Wi-Fi adapter's local
// endpoint. All payloads ride in an encrypted XML envelope; the frame bytes
// themselves are produced and consumed elsewhere.
package transport

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kazehome/melair/internal/crypto"
	"github.com/kazehome/melair/internal/logging"
	"github.com/kazehome/melair/internal/protocol"
)

const (
	// SmartPath is the encrypted exchange endpoint
	SmartPath = "/smart"

	// UnitInfoPath is the plain admin page with adapter details
	UnitInfoPath = "/unitinfo"

	// DefaultAdminUsername is the admin interface HTTP Basic Auth username
	DefaultAdminUsername = "admin"

	// DefaultAdminPassword is the factory admin interface password
	DefaultAdminPassword = "me1debug@0567"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second
)

// Client represents an HTTP client for one adapter
type Client struct {
	// Host is the adapter address, host or host:port
	Host string

	// AdminUsername for the /unitinfo Basic Auth (default: "admin")
	AdminUsername string

	// AdminPassword for the /unitinfo Basic Auth
	AdminPassword string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	key []byte
}

// NewClient creates a client for the adapter at host using the given
// encryption key ("unregistered" on factory-fresh adapters).
func NewClient(host, key string) *Client {
	return &Client{
		Host:          host,
		AdminUsername: DefaultAdminUsername,
		AdminPassword: DefaultAdminPassword,
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		key:           crypto.NormalizeKey(key),
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetAdminAuth sets custom admin interface credentials
func (c *Client) SetAdminAuth(username, password string) {
	c.AdminUsername = username
	c.AdminPassword = password
}

func (c *Client) baseURL() string {
	if strings.Contains(c.Host, ":") {
		return "http://" + c.Host
	}
	return "http://" + c.Host + ":80"
}

// FetchStatus requests the adapter's current state. The response carries one
// frame per state group; frames that fail protocol validation are dropped
// with a warning rather than failing the whole fetch.
func (c *Client) FetchStatus(ctx context.Context) (*DeviceStatus, error) {
	return c.exchange(ctx, &csvDocument{Connect: "ON"})
}

// SendFrame sends one raw command frame and returns the adapter's response
// status. The adapter echoes its full state after applying a command.
func (c *Client) SendFrame(ctx context.Context, frame []byte) (*DeviceStatus, error) {
	logging.LogFrame("sent", protocol.GroupName(frame[5]), frame)
	doc := &csvDocument{
		Connect: "ON",
		Codes:   []codeEntry{{Value: hex.EncodeToString(frame)}},
	}
	return c.exchange(ctx, doc)
}

// EnableEchonet turns on the adapter's ECHONET Lite interface.
func (c *Client) EnableEchonet(ctx context.Context) error {
	_, err := c.exchange(ctx, &csvDocument{Connect: "ON", Echonet: "ON"})
	return err
}

func (c *Client) exchange(ctx context.Context, doc *csvDocument) (*DeviceStatus, error) {
	inner, err := marshalRequest(doc)
	if err != nil {
		return nil, c.deviceErr(ErrTypeParse, "build request", err)
	}
	payload, err := crypto.EncryptEnvelope(c.key, inner)
	if err != nil {
		return nil, c.deviceErr(ErrTypeCrypto, "encrypt request", err)
	}
	body, err := wrapEnvelope(payload)
	if err != nil {
		return nil, c.deviceErr(ErrTypeParse, "build request envelope", err)
	}

	respBody, err := c.post(ctx, SmartPath, body)
	if err != nil {
		return nil, err
	}

	encoded, err := unwrapEnvelope(respBody)
	if err != nil {
		return nil, c.deviceErr(ErrTypeParse, "read response envelope", err)
	}
	plaintext, err := crypto.DecryptEnvelope(c.key, encoded)
	if err != nil {
		return nil, c.deviceErr(ErrTypeCrypto, "decrypt response (wrong encryption key?)", err)
	}
	logging.LogRawBytes("decrypted response", plaintext)

	respDoc, err := parseStatusDocument(plaintext)
	if err != nil {
		return nil, c.deviceErr(ErrTypeParse, "read status document", err)
	}

	status := &DeviceStatus{
		MAC:         respDoc.MAC,
		Serial:      respDoc.Serial,
		RSSI:        respDoc.RSSI,
		AppVersion:  respDoc.AppVersion,
		ProfileCode: respDoc.ProfileCode,
	}
	for _, code := range respDoc.Codes {
		frame, err := hex.DecodeString(strings.TrimSpace(code.Value))
		if err != nil {
			logging.Warn("Dropping unparseable frame hex",
				zap.String("host", c.Host),
				zap.String("value", code.Value),
				zap.Error(err))
			continue
		}
		logging.LogFrame("received", frameGroupName(frame), frame)
		status.Frames = append(status.Frames, frame)
	}
	return status, nil
}

func frameGroupName(frame []byte) string {
	if len(frame) < protocol.MinFrameSize {
		return "short"
	}
	return protocol.GroupName(frame[5])
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	url := c.baseURL() + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, c.deviceErr(ErrTypeNetwork, "create request", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	logging.LogHTTPRequest(c.Host, http.MethodPost, path, len(body))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, c.deviceErr(ErrTypeNetwork, "adapter unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.deviceErr(ErrTypeNetwork, "read response body", err)
	}
	logging.LogHTTPResponse(c.Host, resp.StatusCode, len(respBody))

	if resp.StatusCode != http.StatusOK {
		return nil, &DeviceError{
			Type:       ErrTypeHTTP,
			Message:    fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Host:       c.Host,
		}
	}
	return respBody, nil
}

// GetUnitInfo fetches and parses the adapter's admin information page.
func (c *Client) GetUnitInfo(ctx context.Context) (*UnitInfo, error) {
	url := c.baseURL() + UnitInfoPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, c.deviceErr(ErrTypeNetwork, "create request", err)
	}
	req.SetBasicAuth(c.AdminUsername, c.AdminPassword)
	logging.LogHTTPRequest(c.Host, http.MethodGet, UnitInfoPath, 0)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, c.deviceErr(ErrTypeNetwork, "adapter unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.deviceErr(ErrTypeNetwork, "read response body", err)
	}
	logging.LogHTTPResponse(c.Host, resp.StatusCode, len(body))

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, c.deviceErr(ErrTypeAuth, "admin authentication failed (check credentials)", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &DeviceError{
			Type:       ErrTypeHTTP,
			Message:    fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Host:       c.Host,
		}
	}
	return parseUnitInfo(body), nil
}

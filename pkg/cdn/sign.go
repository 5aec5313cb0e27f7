package cdn

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// UploadSignature is handed to browser clients for direct uploads.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder,omitempty"`
}

// SignUpload produces the parameters a client needs to upload directly to the CDN.
func (c *Client) SignUpload(at time.Time) UploadSignature {
	timestamp := at.Unix()
	params := map[string]string{
		"timestamp": strconv.FormatInt(timestamp, 10),
	}
	if c.folder != "" {
		params["folder"] = c.folder
	}
	return UploadSignature{
		Signature: signParams(params, c.apiSecret),
		Timestamp: timestamp,
		APIKey:    c.apiKey,
		CloudName: c.cloudName,
		Folder:    c.folder,
	}
}

// signParams hashes the sorted key=value pairs joined by "&" with the secret appended.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

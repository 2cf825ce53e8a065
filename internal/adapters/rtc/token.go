package rtc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"
)

// TokenIssuer serializes opaque media-session access tokens. Clients and the
// vendor treat the value as a blob; only expiry and scope are encoded here.
type TokenIssuer struct {
	appID  string
	appKey string
	expire time.Duration
}

func NewTokenIssuer(appID, appKey string, expire time.Duration) *TokenIssuer {
	return &TokenIssuer{appID: appID, appKey: appKey, expire: expire}
}

func (t *TokenIssuer) RTCToken(userID, roomID string) string {
	deadline := time.Now().Add(t.expire).Unix()
	payload := fmt.Sprintf("%s:%s:%s:%d", t.appID, roomID, userID, deadline)
	mac := hmac.New(sha256.New, []byte(t.appKey))
	mac.Write([]byte(payload))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + sig
}

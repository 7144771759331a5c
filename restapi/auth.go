package restapi

import (
	log "log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	jwtverifier "github.com/okta/okta-jwt-verifier-golang"
)

// Environment variables read by Verify.
const (
	EnvMode     = "FEEDBENCH_ENV"
	EnvQAToken  = "FEEDBENCH_QA_TOKEN"
	EnvDomain   = "OKTA_DOMAIN"
	EnvClientID = "OKTA_CLIENT_ID"
)

// Verify checks the bearer token in the Authorization header against Okta and
// writes 401 or 403 when it does not pass. FEEDBENCH_ENV=DEV disables the check and
// FEEDBENCH_ENV=QA also accepts FEEDBENCH_QA_TOKEN verbatim.
func Verify(c *gin.Context) bool {
	mode := os.Getenv(EnvMode)
	if mode == "DEV" {
		return true
	}

	token, ok := strings.CutPrefix(c.Request.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		c.String(http.StatusUnauthorized, "Unauthorized")
		return false
	}
	if mode == "QA" {
		if qa := os.Getenv(EnvQAToken); qa != "" && token == qa {
			return true
		}
	}

	verifierSetup := jwtverifier.JwtVerifier{
		Issuer: "https://" + os.Getenv(EnvDomain) + "/oauth2/default",
		ClaimsToValidate: map[string]string{
			"aud": "api://default",
			"cid": os.Getenv(EnvClientID),
		},
	}
	if _, err := verifierSetup.New().VerifyAccessToken(token); err != nil {
		log.Warn("access token rejected", "error", err)
		c.String(http.StatusForbidden, err.Error())
		return false
	}
	return true
}

// VerifyHeaderToken runs h only for requests Verify accepts.
func VerifyHeaderToken(h func(c *gin.Context)) func(c *gin.Context) {
	return func(c *gin.Context) {
		if Verify(c) {
			h(c)
		}
	}
}

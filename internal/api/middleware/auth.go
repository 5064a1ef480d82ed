package middleware

import (
	"crypto/rsa"
	"crypto/subtle"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/chainledger/ledger-indexer/internal/logger"
)

const (
	// AuthTypeKey is the gin context key the authentication scheme is stored under
	AuthTypeKey = "auth_type"
	// AuthSubjectKey is the gin context key the JWT subject is stored under
	AuthSubjectKey = "auth_subject"
	// JWTClaimsKey is the gin context key the parsed claims are stored under
	JWTClaimsKey = "jwt_claims"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// JWTPublicKey is an RSA public key in PEM format
	JWTPublicKey string
	APIKeys      []string
}

// authenticator validates Authorization headers against a parsed key set.
// The PEM key is parsed once at construction, not per request.
type authenticator struct {
	publicKey *rsa.PublicKey
	apiKeys   []string
}

func newAuthenticator(cfg AuthConfig) (*authenticator, error) {
	a := &authenticator{}
	if cfg.JWTPublicKey != "" {
		key, err := parseRSAPublicKey(cfg.JWTPublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
		a.publicKey = key
	}
	for _, key := range cfg.APIKeys {
		if key != "" {
			a.apiKeys = append(a.apiKeys, key)
		}
	}
	return a, nil
}

// Auth returns a gin middleware accepting either a Bearer JWT or an API key.
// A config with an unparseable public key fails every request rather than
// silently disabling auth.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	auth, err := newAuthenticator(cfg)
	if err != nil {
		logger.Error(err)
	}

	return func(c *gin.Context) {
		if auth == nil {
			abortUnauthorized(c, errors.New("authentication misconfigured"))
			return
		}

		scheme, credentials, err := splitAuthHeader(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		switch scheme {
		case "bearer":
			claims, err := auth.validateJWT(credentials)
			if err != nil {
				abortUnauthorized(c, err)
				return
			}
			c.Set(AuthTypeKey, "jwt")
			c.Set(JWTClaimsKey, claims)
			if claims.Subject != "" {
				c.Set(AuthSubjectKey, claims.Subject)
			}

		case "apikey":
			if err := auth.validateAPIKey(credentials); err != nil {
				abortUnauthorized(c, err)
				return
			}
			c.Set(AuthTypeKey, "apikey")

		default:
			abortUnauthorized(c, fmt.Errorf("unsupported authorization type: %s", scheme))
			return
		}

		c.Next()
	}
}

func splitAuthHeader(header string) (scheme, credentials string, err error) {
	if header == "" {
		return "", "", errors.New("missing Authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", "", errors.New("invalid Authorization header format")
	}
	return strings.ToLower(parts[0]), parts[1], nil
}

func abortUnauthorized(c *gin.Context, err error) {
	logger.Warn("Authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": "Authentication failed",
			"details": err.Error(),
		},
	})
}

// validateJWT checks the RSA signature and standard time claims
func (a *authenticator) validateJWT(tokenString string) (*jwt.RegisteredClaims, error) {
	if a.publicKey == nil {
		return nil, errors.New("JWT public key not configured")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (a *authenticator) validateAPIKey(apiKey string) error {
	if len(a.apiKeys) == 0 {
		return errors.New("no API keys configured")
	}
	for _, key := range a.apiKeys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) == 1 {
			return nil
		}
	}
	return errors.New("invalid API key")
}

// parseRSAPublicKey accepts PKIX or PKCS1 encoded RSA public keys
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}
	return rsaKey, nil
}

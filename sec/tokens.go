package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateHS256SignedToken generates a jwt signed with HMAC-SHA256.
// sub carries the subject id (e.g. a print job id).
func GenerateHS256SignedToken(iss string, sub string, secret []byte, expDuration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sub,
		"iat": now.Unix(),
		"exp": now.Add(expDuration).Unix(),
		"iss": iss,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseHS256SignedToken verifies a signed token (string) into a parsed jwt.Token object
func ParseHS256SignedToken(signedToken string, secret []byte) (*jwt.Token, error) {
	return jwt.Parse(signedToken, func(token *jwt.Token) (interface{}, error) {
		// ensure alg is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
}

func GetClaimsFromParsedJWTToken(parsedToken *jwt.Token) (jwt.MapClaims, error) {
	if !parsedToken.Valid {
		return nil, errors.New("invalid token")
	}
	claimMap, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to convert token claims to a map")
	}
	return claimMap, nil
}

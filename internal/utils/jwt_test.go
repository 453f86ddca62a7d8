package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/cryptguard/cryptguard/models"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	accountID := int64(123)
	email := "user@example.com"
	duration := time.Hour
	key := "secret-key"

	token, err := GenerateJWTToken(issuer, accountID, email, duration, key)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.Token == nil {
		t.Error("expected non-nil jwt.Token object")
	}

	// Verify claims
	claims, ok := token.Token.Claims.(models.AccessClaims)
	if !ok {
		t.Fatal("could not cast claims to AccessClaims")
	}
	if claims.Issuer != issuer {
		t.Errorf("expected issuer %s, got %s", issuer, claims.Issuer)
	}
	if claims.Subject != "123" {
		t.Errorf("expected subject '123', got %s", claims.Subject)
	}
	if claims.Email != email {
		t.Errorf("expected email %s, got %s", email, claims.Email)
	}
}

func TestGenerateJWTToken_EmptyEmail(t *testing.T) {
	// Refresh tokens carry no email claim.
	token, err := GenerateJWTToken("iss", 7, "", time.Hour, "key")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.Email != "" {
		t.Errorf("expected empty email claim, got %s", token.Email)
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", time.Hour, "key"},
		{"zero duration", "iss", 0, "key"},
		{"empty key", "iss", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, 1, "a@b.c", tt.duration, tt.key)
			if err == nil {
				t.Error("expected error for invalid parameters, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	accountID := int64(456)
	email := "user@example.com"
	key := "secret-key"
	duration := time.Minute * 5

	// First generate a valid token
	genToken, _ := GenerateJWTToken(issuer, accountID, email, duration, key)

	// Now validate it
	parsedToken, err := ValidateAndParseJWTToken(genToken.SignedString, key, issuer)

	if err != nil {
		t.Fatalf("expected token to be valid, got error: %v", err)
	}
	if parsedToken.AccountID != accountID {
		t.Errorf("expected accountID %d, got %d", accountID, parsedToken.AccountID)
	}
	if parsedToken.Email != email {
		t.Errorf("expected email %s, got %s", email, parsedToken.Email)
	}
}

func TestValidateAndParseJWTToken_InvalidKey(t *testing.T) {
	issuer := "test-issuer"
	key := "correct-key"
	wrongKey := "wrong-key"

	genToken, _ := GenerateJWTToken(issuer, 1, "", time.Hour, key)

	_, err := ValidateAndParseJWTToken(genToken.SignedString, wrongKey, issuer)
	if err == nil {
		t.Error("expected error due to signature mismatch, got nil")
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		t.Error("signature mismatch must not report as expiration")
	}
}

func TestValidateAndParseJWTToken_Expired(t *testing.T) {
	issuer := "test-issuer"
	key := "key"
	// Token that expired 1 second ago
	genToken, _ := GenerateJWTToken(issuer, 1, "", -time.Second, key)

	_, err := ValidateAndParseJWTToken(genToken.SignedString, key, issuer)
	if err == nil {
		t.Fatal("expected error for expired token, got nil")
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("expected wrapped jwt.ErrTokenExpired, got: %v", err)
	}
}

func TestValidateAndParseJWTToken_WrongIssuer(t *testing.T) {
	key := "key"
	genToken, _ := GenerateJWTToken("real-issuer", 1, "", time.Hour, key)

	_, err := ValidateAndParseJWTToken(genToken.SignedString, key, "fake-issuer")
	if err == nil {
		t.Error("expected error for issuer mismatch, got nil")
	}
}

func TestValidateAndParseJWTToken_CrossKey(t *testing.T) {
	// A refresh token signed with the refresh key must not validate under
	// the access key.
	genToken, _ := GenerateJWTToken("iss", 1, "", time.Hour, "refresh-sign-key")

	_, err := ValidateAndParseJWTToken(genToken.SignedString, "access-sign-key", "iss")
	if err == nil {
		t.Error("expected error validating refresh token with access key, got nil")
	}
}

func TestParseAccountIDFromJWT(t *testing.T) {
	genToken, _ := GenerateJWTToken("iss", 99, "a@b.c", time.Hour, "key")

	id, err := ParseAccountIDFromJWT(genToken.SignedString)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if id != 99 {
		t.Errorf("expected accountID 99, got %d", id)
	}

	if _, err := ParseAccountIDFromJWT("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token, got nil")
	}
}

package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword compares a password with its hash
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GenerateRandomString generates a random string of specified length
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// LoginToEmail converts a human-chosen login into the credential identifier used
// with the auth layer. Logins that already look like an email pass through.
func LoginToEmail(login, domain string) string {
	login = strings.TrimSpace(strings.ToLower(login))
	if strings.Contains(login, "@") {
		return login
	}
	return login + "@" + domain
}

// IsValidStudentStatus checks if a student status is valid
func IsValidStudentStatus(status string) bool {
	validStatuses := []string{"prospeccao", "matricula", "inativo"}
	for _, validStatus := range validStatuses {
		if status == validStatus {
			return true
		}
	}
	return false
}

// IsValidProfessionalStatus checks if a professional status is valid
func IsValidProfessionalStatus(status string) bool {
	return status == "ativo" || status == "inativo"
}

// IsValidContinuityStatus checks if a continuity item status is valid
func IsValidContinuityStatus(status string) bool {
	validStatuses := []string{"nao_iniciado", "em_andamento", "concluido"}
	for _, validStatus := range validStatuses {
		if status == validStatus {
			return true
		}
	}
	return false
}

// IsValidTransactionType checks if a transaction type is valid
func IsValidTransactionType(t string) bool {
	return t == "credit" || t == "monthly" || t == "payment"
}

// IsValidFileExtension checks the filename against a comma-separated list of
// allowed extensions.
func IsValidFileExtension(filename string, allowedExtensions string) bool {
	if filename == "" {
		return false
	}

	parts := strings.Split(filename, ".")
	if len(parts) < 2 {
		return false
	}

	ext := strings.ToLower(parts[len(parts)-1])

	for _, allowedExt := range strings.Split(allowedExtensions, ",") {
		if ext == strings.ToLower(strings.TrimSpace(allowedExt)) {
			return true
		}
	}
	return false
}

// SanitizeString removes dangerous characters from string
func SanitizeString(input string) string {
	// Remove null bytes and control characters
	input = strings.ReplaceAll(input, "\x00", "")

	// Trim whitespace
	input = strings.TrimSpace(input)

	return input
}

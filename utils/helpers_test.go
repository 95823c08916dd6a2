package utils

import "testing"

func TestLoginToEmail(t *testing.T) {
	tests := []struct {
		name  string
		login string
		want  string
	}{
		{"plain login", "maria", "maria@oficinadoaluno.com"},
		{"uppercase folded", "Maria", "maria@oficinadoaluno.com"},
		{"surrounding spaces", "  joao  ", "joao@oficinadoaluno.com"},
		{"full email passes through", "maria@gmail.com", "maria@gmail.com"},
		{"email case folded", "Maria@Gmail.com", "maria@gmail.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LoginToEmail(tt.login, "oficinadoaluno.com"); got != tt.want {
				t.Errorf("LoginToEmail(%q) = %q, want %q", tt.login, got, tt.want)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("segredo123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "segredo123" {
		t.Fatal("hash equals plaintext")
	}
	if err := CheckPassword("segredo123", hash); err != nil {
		t.Errorf("CheckPassword with correct password: %v", err)
	}
	if err := CheckPassword("errada", hash); err == nil {
		t.Error("CheckPassword accepted wrong password")
	}
}

func TestStatusValidators(t *testing.T) {
	if !IsValidStudentStatus("prospeccao") || !IsValidStudentStatus("matricula") || !IsValidStudentStatus("inativo") {
		t.Error("valid student statuses rejected")
	}
	if IsValidStudentStatus("ativo") {
		t.Error("ativo is not a student status")
	}

	if !IsValidProfessionalStatus("ativo") || !IsValidProfessionalStatus("inativo") {
		t.Error("valid professional statuses rejected")
	}
	if IsValidProfessionalStatus("matricula") {
		t.Error("matricula is not a professional status")
	}

	if !IsValidContinuityStatus("nao_iniciado") || !IsValidContinuityStatus("em_andamento") || !IsValidContinuityStatus("concluido") {
		t.Error("valid continuity statuses rejected")
	}

	if !IsValidTransactionType("credit") || !IsValidTransactionType("monthly") || !IsValidTransactionType("payment") {
		t.Error("valid transaction types rejected")
	}
	if IsValidTransactionType("refund") {
		t.Error("refund is not a transaction type")
	}
}

func TestIsValidFileExtension(t *testing.T) {
	allowed := "jpg,jpeg,png,pdf"

	tests := []struct {
		filename string
		want     bool
	}{
		{"foto.jpg", true},
		{"foto.JPG", true},
		{"laudo.pdf", true},
		{"script.exe", false},
		{"semextensao", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidFileExtension(tt.filename, allowed); got != tt.want {
			t.Errorf("IsValidFileExtension(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestValidateStruct(t *testing.T) {
	type form struct {
		Name  string `validate:"required,min=2"`
		Email string `validate:"omitempty,email"`
	}

	if msgs := ValidateStruct(form{Name: "Ana"}); msgs != nil {
		t.Errorf("valid struct produced errors: %v", msgs)
	}

	msgs := ValidateStruct(form{Email: "not-an-email"})
	if len(msgs) != 2 {
		t.Fatalf("expected 2 errors, got %v", msgs)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  texto\x00limpo  "); got != "textolimpo" {
		t.Errorf("SanitizeString = %q", got)
	}
}

package backend

import (
	"errors"
	"testing"
)

func TestExtractTranslation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"result", `{"result":"Hola"}`, "Hola", false},
		{"translated_text", `{"translated_text":"Bonjour"}`, "Bonjour", false},
		{"translation", `{"translation":"Ciao"}`, "Ciao", false},
		{"output", `{"output":"Hallo"}`, "Hallo", false},
		{"bare string", `"Olá"`, "Olá", false},
		{"alias order", `{"output":"last","result":"first"}`, "first", false},
		{"empty alias skipped", `{"result":"","translation":"used"}`, "used", false},
		{"non-string alias skipped", `{"result":42,"output":"used"}`, "used", false},
		{"surrounding whitespace", "\n  {\"result\":\"Hola\"}  \n", "Hola", false},
		{"unknown field", `{"text":"nope"}`, "", true},
		{"empty object", `{}`, "", true},
		{"empty string", `""`, "", true},
		{"array", `["Hola"]`, "", true},
		{"number", `42`, "", true},
		{"not json", `Hola`, "", true},
		{"empty body", ``, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTranslation([]byte(tt.body))
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Errorf("ExtractTranslation(%q) error = %v, want ErrMalformedResponse", tt.body, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractTranslation(%q) unexpected error: %v", tt.body, err)
			}
			if got != tt.want {
				t.Errorf("ExtractTranslation(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

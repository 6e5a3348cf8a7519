package user

import "testing"

func TestFullName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  string
	}{
		{"lowercase", "john", "doe", "John Doe"},
		{"already cased", "John", "Doe", "John Doe"},
		{"uppercase", "JOHN", "DOE", "John Doe"},
		{"accented first letter", "émile", "zola", "Émile Zola"},
		{"accented uppercase", "ÉMILE", "ZOLA", "Émile Zola"},
		{"empty last", "john", "", "John"},
		{"both empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{FirstName: tt.first, LastName: tt.last}

			if got := u.FullName(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

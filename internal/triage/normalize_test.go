package triage

import "testing"

func TestNormalize(t *testing.T) {
	lex := testLexicon(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercase and diacritics",
			in:   "Paciente de 45 AÑOS con saturación baja",
			want: "paciente de 45 anos con saturacion baja",
		},
		{
			name: "abbreviation expansion",
			in:   "FC: 130, TA: 120/80",
			want: "frecuencia cardiaca 130 tension arterial 120/80",
		},
		{
			name: "abbreviation is whole token only",
			in:   "tarifa fcx infarto",
			want: "tarifa fcx infarto",
		},
		{
			name: "whitespace collapse",
			in:   "dolor   toracico\n\tintenso",
			want: "dolor toracico intenso",
		},
		{
			name: "unsafe characters become spaces",
			in:   "¡urgente! <remitir@ya>",
			want: "urgente remitir ya",
		},
		{
			name: "clinical punctuation survives",
			in:   "Temp 38.5, SpO2 92%, TA 120/80",
			want: "temp 38.5 saturacion oxigeno 92% tension arterial 120/80",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "blank input",
			in:   "   \n\t  ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lex.normalize(tt.in); got != tt.want {
				t.Errorf("normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	lex := testLexicon(t)

	in := "Paciente con IAM, FC: 130, saturación 85%"
	once := lex.normalize(in)
	twice := lex.normalize(once)
	if once != twice {
		t.Errorf("normalize is not idempotent: %q != %q", once, twice)
	}
}

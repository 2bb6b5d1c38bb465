package triage

import (
	"math"
	"testing"
)

func TestUrgencyScoreMaxNotSum(t *testing.T) {
	lex := testLexicon(t)

	norm := lex.normalize("Infarto agudo de miocardio con hemorragia cerebral")
	conditions := lex.matchConditions(norm)
	if len(conditions) != 2 {
		t.Fatalf("matched %d conditions, want 2", len(conditions))
	}
	if got := lex.urgencyScore(norm, conditions); got != 95 {
		t.Errorf("urgencyScore = %v, want 95 (max severity, not sum)", got)
	}
}

func TestUrgencyScoreKeywordFallback(t *testing.T) {
	lex := testLexicon(t)

	tests := []struct {
		raw  string
		want float64
	}{
		{"Paciente en estado crítico, requiere manejo urgente", 80},
		{"remisión urgente", 60},
		{"ingresa a UCI", 60},
		{"paciente de apellido Lucia, estable", 0},
		{"control de rutina", 0},
	}

	for _, tt := range tests {
		norm := lex.normalize(tt.raw)
		if got := lex.urgencyScore(norm, nil); got != tt.want {
			t.Errorf("urgencyScore(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestVitalsScore(t *testing.T) {
	tests := []struct {
		name string
		v    VitalSigns
		want float64
	}{
		{"no vitals", VitalSigns{}, 0},
		{"normal vitals", VitalSigns{HeartRate: intPtr(72), OxygenSaturation: intPtr(98)}, 0},
		{"single severe tachycardia", VitalSigns{HeartRate: intPtr(130)}, 30},
		{"single moderate tachycardia", VitalSigns{HeartRate: intPtr(110)}, 15},
		{"severe hypoxia alone", VitalSigns{OxygenSaturation: intPtr(85)}, 40},
		{"moderate hypoxia alone", VitalSigns{OxygenSaturation: intPtr(93)}, 25},
		{"spo2 at 90 is moderate tier", VitalSigns{OxygenSaturation: intPtr(90)}, 25},
		{"spo2 at 89 is severe tier", VitalSigns{OxygenSaturation: intPtr(89)}, 40},
		{"glasgow 8 scores 50", VitalSigns{GlasgowScore: intPtr(8)}, 50},
		{"glasgow 12 scores 30", VitalSigns{GlasgowScore: intPtr(12)}, 30},
		{"glasgow 15 scores 0", VitalSigns{GlasgowScore: intPtr(15)}, 0},
		{
			name: "two deranged vitals scale by 1.2",
			v:    VitalSigns{HeartRate: intPtr(130), OxygenSaturation: intPtr(85)},
			want: (30 + 40) * 1.2,
		},
		{
			name: "three deranged vitals scale by 1.3 and clip",
			v: VitalSigns{
				HeartRate:        intPtr(140),
				OxygenSaturation: intPtr(82),
				GlasgowScore:     intPtr(6),
			},
			want: 100,
		},
		{
			name: "hypotension severe tier",
			v:    VitalSigns{BloodPressureSys: intPtr(85), BloodPressureDia: intPtr(60)},
			want: 35,
		},
		{
			name: "diastolic alone can trigger moderate tier",
			v:    VitalSigns{BloodPressureSys: intPtr(120), BloodPressureDia: intPtr(95)},
			want: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vitalsScore(tt.v); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("vitalsScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeverityScore(t *testing.T) {
	lex := testLexicon(t)

	tests := []struct {
		raw  string
		want float64
	}{
		{"dolor torácico con hemorragia", 55},
		{"paciente independiente, ambulatorio", 0},
		{"hemorragia, sangrado, perdida de conciencia, paralisis, convulsiones", 100},
		{"sin hallazgos", 0},
	}

	for _, tt := range tests {
		norm := lex.normalize(tt.raw)
		if got := lex.severityScore(norm); got != tt.want {
			t.Errorf("severityScore(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestAgeScore(t *testing.T) {
	tests := []struct {
		name string
		age  *int
		want float64
	}{
		{"absent", nil, 0},
		{"infant override", intPtr(0), 50},
		{"toddler bracket", intPtr(2), 39},
		{"mid adult", intPtr(45), 0},
		{"elderly bracket", intPtr(75), 36},
		{"very elderly bracket", intPtr(85), 42},
		{"override above ninety", intPtr(91), 45},
		{"ninety stays very elderly", intPtr(90), 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ageScore(tt.age); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ageScore = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTemporalScore(t *testing.T) {
	lex := testLexicon(t)

	tests := []struct {
		raw  string
		want float64
	}{
		{"atención inmediata", 100},
		{"valorar hoy mismo", 80},
		{"cita en esta semana", 60},
		{"valorar esta semana, idealmente hoy", 80},
		{"control en tres meses", 0},
	}

	for _, tt := range tests {
		norm := lex.normalize(tt.raw)
		if got := lex.temporalScore(norm); got != tt.want {
			t.Errorf("temporalScore(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestWeightedTotal(t *testing.T) {
	w := DefaultWeights()

	if got := w.sum(); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("default weights sum to %v, want 1.0", got)
	}

	all100 := FactorScores{100, 100, 100, 100, 100, 100}
	if got := weightedTotal(all100, w); got != 100 {
		t.Errorf("weightedTotal(all 100) = %v, want 100", got)
	}

	zero := FactorScores{}
	if got := weightedTotal(zero, w); got != 0 {
		t.Errorf("weightedTotal(zero) = %v, want 0", got)
	}

	f := FactorScores{
		UrgencyKeywords:  85,
		VitalSigns:       84,
		ClinicalSeverity: 25,
		SpecialtyUrgency: 80,
	}
	if got := weightedTotal(f, w); math.Abs(got-55.05) > 1e-9 {
		t.Errorf("weightedTotal = %v, want 55.05", got)
	}
}

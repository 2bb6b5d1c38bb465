package triage

import (
	"fmt"
	"strings"
)

// Explanations are written for the triage staff reviewing the queue, in
// Spanish, and only for factors that contributed enough to matter. The
// thresholds below are reporting thresholds; they do not change the score.
const (
	explainUrgencyAbove   = 60.0
	explainVitalsAbove    = 30.0
	explainSeverityAbove  = 40.0
	explainAgeAbove       = 30.0
	explainSpecialtyAbove = 60.0
	explainTemporalAbove  = 50.0
)

func buildExplanations(f FactorScores, age *int, specialty Specialty, detected bool) []string {
	var out []string

	if f.UrgencyKeywords > explainUrgencyAbove {
		out = append(out, fmt.Sprintf("Palabras clave de urgencia detectadas (puntaje: %.1f)", f.UrgencyKeywords))
	}
	if f.VitalSigns > explainVitalsAbove {
		out = append(out, fmt.Sprintf("Signos vitales alterados (puntaje: %.1f)", f.VitalSigns))
	}
	if f.ClinicalSeverity > explainSeverityAbove {
		out = append(out, fmt.Sprintf("Indicadores de severidad clínica presentes (puntaje: %.1f)", f.ClinicalSeverity))
	}
	if age != nil && f.AgeFactor > explainAgeAbove {
		out = append(out, fmt.Sprintf("Factor de edad de riesgo: %d años (puntaje: %.1f)", *age, f.AgeFactor))
	}
	if detected && f.SpecialtyUrgency > explainSpecialtyAbove {
		out = append(out, fmt.Sprintf("Especialidad de alta urgencia: %s (puntaje: %.1f)", specialty, f.SpecialtyUrgency))
	}
	if f.TemporalUrgency > explainTemporalAbove {
		out = append(out, fmt.Sprintf("Urgencia temporal manifestada (puntaje: %.1f)", f.TemporalUrgency))
	}
	return out
}

// Sender domains that identify the referring network. A match makes the
// metadata count as one extra supporting data point; it never feeds the
// score itself.
var trustedDomainMarkers = []string{"hospital", "clinica", "clínica", "ips", "eps", ".gov.co", ".edu.co"}

func trustedMetadata(meta *Metadata) bool {
	if meta == nil {
		return false
	}
	if strings.TrimSpace(meta.Institution) != "" {
		return true
	}
	domain := strings.ToLower(meta.SenderDomain)
	for _, marker := range trustedDomainMarkers {
		if marker != "" && strings.Contains(domain, marker) {
			return true
		}
	}
	return false
}

// confidenceFor grades evidentiary breadth: how many independent data points
// backed the verdict. Specialty urgency is excluded from the count because
// it is always populated, even by the fallback default.
func confidenceFor(f FactorScores, detected bool, meta *Metadata) Confidence {
	points := 0
	for _, v := range []float64{
		f.UrgencyKeywords, f.VitalSigns, f.ClinicalSeverity,
		f.AgeFactor, f.TemporalUrgency,
	} {
		if v > 0 {
			points++
		}
	}
	if detected {
		points++
	}
	if trustedMetadata(meta) {
		points++
	}

	switch {
	case points >= 4:
		return ConfidenceHigh
	case points >= 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

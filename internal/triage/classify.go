package triage

import "regexp"

// classifySpecialty scores every specialty against the normalized text:
// each distinct keyword hit counts 1, each distinct pattern hit counts 2.
// The strictly highest total wins; ties resolve to the earliest entry in the
// table, which lists higher-acuity specialties first. A board with no hits
// at all falls back to general medicine with a fixed low confidence.
func (l *lexicon) classifySpecialty(norm string) (Specialty, float64, bool) {
	best := -1
	bestScore := 0
	for i := range l.specialties {
		kw, pat := l.specialties[i].hits(norm)
		score := kw + 2*pat
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return SpecialtyGeneralMedicine, 0.3, false
	}
	conf := float64(bestScore) / 10
	if conf > 1.0 {
		conf = 1.0
	}
	return l.specialties[best].name, conf, true
}

// matchConditions returns every critical-condition category whose pattern
// set fires, with the fixed severity that category carries.
func (l *lexicon) matchConditions(norm string) []ConditionMatch {
	var out []ConditionMatch
	for i := range l.conditions {
		if l.conditions[i].matched(norm) {
			out = append(out, ConditionMatch{
				Category: ConditionCategory(l.conditions[i].label),
				Severity: l.conditions[i].score,
			})
		}
	}
	return out
}

// Referral type rules are checked most-specific first; a referral that asks
// for surgery is surgical even when the word urgente also appears.
var referralTypeRules = []struct {
	kind ReferralType
	re   *regexp.Regexp
}{
	{ReferralHospitalization, regexp.MustCompile(`\b(?:hospitalizacion|hospitalizar|internacion|hospitalization)\b`)},
	{ReferralSurgery, regexp.MustCompile(`\b(?:cirugia|surgery|quirurgico|operacion)\b`)},
	{ReferralEmergency, regexp.MustCompile(`\b(?:urgencia|urgente|emergencia|emergency|urgent)\b`)},
}

func detectReferralType(norm string) ReferralType {
	for _, r := range referralTypeRules {
		if r.re.MatchString(norm) {
			return r.kind
		}
	}
	return ReferralConsultation
}

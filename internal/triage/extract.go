package triage

import (
	"regexp"
	"strconv"
	"strings"
)

// Extraction runs ordered candidate patterns per field against the normalized
// text; the first match that passes physiologic validation wins and later
// candidates are not consulted. Fields with no valid candidate stay nil.
// Name, doctor and institution run against the raw text because they depend
// on capitalization that normalization destroys.

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,3})\s+anos\b`),
	regexp.MustCompile(`edad\s*(?:de\s*)?(\d{1,3})\b`),
	regexp.MustCompile(`paciente\s+de\s+(\d{1,3})\b`),
}

var (
	masculineRe = regexp.MustCompile(`\b(?:masculino|hombre|varon|male)\b`)
	feminineRe  = regexp.MustCompile(`\b(?:femenino|femenina|mujer|female)\b`)
)

var identificationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:cedula|documento|identificacion)\s*(?:de\s+ciudadania\s*)?(?:numero\s*|no\s*)?(\d{6,12})\b`),
	regexp.MustCompile(`\bcc\s*(?:numero\s*|no\s*)?(\d{6,12})\b`),
	regexp.MustCompile(`\bid\s*(?:numero\s*|no\s*)?(\d{6,12})\b`),
}

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:telefono|celular|tel|phone|contacto)\s*(?:numero\s*|no\s*)?(\(?\+?\d[\d\s\-()]{4,18}\d)`),
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:[Pp]aciente|[Nn]ombre)[:\s]+([A-ZÁÉÍÓÚÑ][a-záéíóúñü]+(?:\s+[A-ZÁÉÍÓÚÑ][a-záéíóúñü]+){1,3})`),
	regexp.MustCompile(`\bSr[a]?\.?\s+([A-ZÁÉÍÓÚÑ][a-záéíóúñü]+(?:\s+[A-ZÁÉÍÓÚÑ][a-záéíóúñü]+){0,3})`),
}

var (
	heartRatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:frecuencia\s+cardiaca|heart\s+rate|pulso)\s*(?:de\s*)?(\d{2,3})\b`),
	}
	respiratoryRatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:frecuencia\s+respiratoria|respiratory\s+rate)\s*(?:de\s*)?(\d{1,2})\b`),
	}
	bloodPressurePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:tension\s+arterial|presion\s+arterial|blood\s+pressure)\s*(?:de\s*)?(\d{2,3})\s*/\s*(\d{2,3})\b`),
		regexp.MustCompile(`\b(\d{2,3})/(\d{2,3})\b`),
	}
	temperaturePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:temperatura|temp|fiebre\s+de)\s*(?:de\s*)?(\d{2}(?:\.\d{1,2})?)\b`),
	}
	saturationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:saturacion(?:\s+(?:de\s+)?oxigeno)?|oximetria|sao2)\s*(?:de\s*)?(?:al\s*)?(?:menor\s+(?:de\s+)?)?(\d{2,3})\s*%?`),
	}
	glasgowPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:escala\s+de\s+glasgow|glasgow|gcs)\s*(?:de\s*)?(\d{1,2})\b`),
	}
)

var (
	institutionRe = regexp.MustCompile(`(?i)(?:hospital|cl[ií]nica|centro\s+m[eé]dico|fundaci[oó]n|ips)\s+([^\n,.;]{3,60})`)
	doctorRe      = regexp.MustCompile(`\b(?:Dr|Dra|Doctor|Doctora)\.?\s+([A-ZÁÉÍÓÚÑ][a-záéíóúñü]+(?:\s+[A-ZÁÉÍÓÚÑ][a-záéíóúñü]+){0,2})`)
)

// firstInt returns the first captured integer within [lo, hi], walking the
// candidate patterns in order and every match of each.
func firstInt(text string, pats []*regexp.Regexp, lo, hi int) *int {
	for _, re := range pats {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if v >= lo && v <= hi {
				return &v
			}
		}
	}
	return nil
}

func firstFloat(text string, pats []*regexp.Regexp, lo, hi float64) *float64 {
	for _, re := range pats {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if v >= lo && v <= hi {
				return &v
			}
		}
	}
	return nil
}

func extractPatient(norm, raw string) PatientProfile {
	p := PatientProfile{
		Age: firstInt(norm, agePatterns, 0, 120),
	}

	switch {
	case masculineRe.MatchString(norm):
		p.Gender = GenderMasculine
	case feminineRe.MatchString(norm):
		p.Gender = GenderFeminine
	}

	for _, re := range identificationPatterns {
		if m := re.FindStringSubmatch(norm); m != nil {
			id := m[1]
			p.Identification = &id
			break
		}
	}

	for _, re := range phonePatterns {
		for _, m := range re.FindAllStringSubmatch(norm, -1) {
			digits := keepDigits(m[1])
			if len(digits) >= 7 && len(digits) <= 15 {
				p.Phone = &digits
				break
			}
		}
		if p.Phone != nil {
			break
		}
	}

	for _, re := range namePatterns {
		if m := re.FindStringSubmatch(raw); m != nil {
			name := strings.TrimSpace(m[1])
			p.Name = &name
			break
		}
	}

	return p
}

func extractVitals(norm string) VitalSigns {
	v := VitalSigns{
		HeartRate:       firstInt(norm, heartRatePatterns, 30, 250),
		RespiratoryRate: firstInt(norm, respiratoryRatePatterns, 5, 60),
		Temperature:     firstFloat(norm, temperaturePatterns, 30.0, 45.0),
		GlasgowScore:    firstInt(norm, glasgowPatterns, 3, 15),
	}

	// Saturation values below the 50% floor read as transcription noise and
	// are dropped rather than scored.
	v.OxygenSaturation = firstInt(norm, saturationPatterns, 50, 100)

	// Blood pressure is a pair: both components must validate or neither is
	// stored.
	for _, re := range bloodPressurePatterns {
		for _, m := range re.FindAllStringSubmatch(norm, -1) {
			sys, errS := strconv.Atoi(m[1])
			dia, errD := strconv.Atoi(m[2])
			if errS != nil || errD != nil {
				continue
			}
			if sys >= 60 && sys <= 300 && dia >= 30 && dia <= 200 {
				v.BloodPressureSys = &sys
				v.BloodPressureDia = &dia
				return v
			}
		}
	}
	return v
}

func extractInstitution(raw string) Institution {
	var inst Institution
	if m := institutionRe.FindStringSubmatch(raw); m != nil {
		name := strings.TrimSpace(m[0])
		inst.Name = &name
	}
	if m := doctorRe.FindStringSubmatch(raw); m != nil {
		doctor := strings.TrimSpace(m[1])
		inst.Doctor = &doctor
	}
	return inst
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

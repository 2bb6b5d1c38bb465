package triage

import (
	"fmt"
	"math"
	"time"
	"unicode"
)

// Config carries the scoring calibration. The zero value is not usable;
// start from DefaultConfig and override selectively.
type Config struct {
	Weights Weights

	// Score thresholds for the priority levels: >= HighThreshold is Alta,
	// >= MediumThreshold is Media, anything below is Baja.
	HighThreshold   float64
	MediumThreshold float64
}

func DefaultConfig() Config {
	return Config{
		Weights:         DefaultWeights(),
		HighThreshold:   70,
		MediumThreshold: 40,
	}
}

const weightSumEpsilon = 1e-6

func (c Config) Validate() error {
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"urgency_keywords", c.Weights.UrgencyKeywords},
		{"vital_signs", c.Weights.VitalSigns},
		{"clinical_severity", c.Weights.ClinicalSeverity},
		{"age_factor", c.Weights.AgeFactor},
		{"specialty_urgency", c.Weights.SpecialtyUrgency},
		{"temporal_urgency", c.Weights.TemporalUrgency},
	} {
		if w.value < 0 || w.value > 1 {
			return fmt.Errorf("weight %s = %v outside [0,1]", w.name, w.value)
		}
	}
	if sum := c.Weights.sum(); math.Abs(sum-1.0) > weightSumEpsilon {
		return fmt.Errorf("weights sum to %v, must sum to 1", sum)
	}
	if c.MediumThreshold <= 0 || c.HighThreshold > 100 || c.MediumThreshold >= c.HighThreshold {
		return fmt.Errorf("thresholds must satisfy 0 < medium (%v) < high (%v) <= 100",
			c.MediumThreshold, c.HighThreshold)
	}
	return nil
}

// Engine classifies referral text. It holds only immutable compiled tables
// and the frozen config, so a single Engine is safe for concurrent use.
type Engine struct {
	cfg Config
	lex *lexicon
}

// NewEngine validates the config and compiles every lexicon table. Any
// fault here is a configuration error and the caller should abort startup.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("triage config: %w", err)
	}
	lex, err := newLexicon()
	if err != nil {
		return nil, fmt.Errorf("triage lexicon: %w", err)
	}
	return &Engine{cfg: cfg, lex: lex}, nil
}

func (e *Engine) levelFor(score float64) Priority {
	switch {
	case score >= e.cfg.HighThreshold:
		return PriorityHigh
	case score >= e.cfg.MediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Classify runs the full pipeline on one referral text. It never returns an
// error and never panics outward: blank input yields the neutral default
// verdict, and an unanticipated fault is captured in Result.Error with the
// best partial data assembled so far and a conservative Medium level.
func (e *Engine) Classify(text string, meta *Metadata) (res *Result) {
	res = &Result{
		Specialty:           SpecialtyGeneralMedicine,
		SpecialtyConfidence: 0.3,
		ReferralType:        ReferralConsultation,
		ClassifiedAt:        time.Now().UTC(),
	}
	defer func() {
		if r := recover(); r != nil {
			res.Error = fmt.Sprintf("classification fault: %v", r)
			res.Verdict.Level = PriorityMedium
			res.Verdict.Confidence = ConfidenceLow
		}
	}()

	norm := e.lex.normalize(text)
	if !hasContent(norm) {
		res.Verdict = Verdict{
			Score:      50,
			Level:      PriorityMedium,
			Confidence: ConfidenceLow,
			Explanations: []string{
				"Texto insuficiente para clasificación automática",
			},
		}
		return res
	}

	res.Patient = extractPatient(norm, text)
	res.Vitals = extractVitals(norm)
	res.Specialty, res.SpecialtyConfidence, res.SpecialtyDetected = e.lex.classifySpecialty(norm)
	res.Conditions = e.lex.matchConditions(norm)
	res.ReferralType = detectReferralType(norm)
	res.Institution = extractInstitution(text)

	res.Scores = FactorScores{
		UrgencyKeywords:  e.lex.urgencyScore(norm, res.Conditions),
		VitalSigns:       vitalsScore(res.Vitals),
		ClinicalSeverity: e.lex.severityScore(norm),
		AgeFactor:        ageScore(res.Patient.Age),
		SpecialtyUrgency: e.lex.specialtyUrgencyScore(res.Specialty, res.SpecialtyDetected),
		TemporalUrgency:  e.lex.temporalScore(norm),
	}

	score := weightedTotal(res.Scores, e.cfg.Weights)
	res.Verdict = Verdict{
		Score:        score,
		Level:        e.levelFor(score),
		Confidence:   confidenceFor(res.Scores, res.SpecialtyDetected, meta),
		Explanations: buildExplanations(res.Scores, res.Patient.Age, res.Specialty, res.SpecialtyDetected),
	}
	return res
}

// hasContent reports whether normalized text still carries any letter or
// digit. Punctuation-only input classifies as blank.
func hasContent(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

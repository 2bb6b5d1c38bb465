package triage

// Factor scoring. Each factor is bounded to [0,100] before weighting; the
// weighted total is clipped to the same range.

// urgencyScore prefers matched critical conditions: the single highest
// severity wins, severities never add. Only when no condition fires do the
// flat urgency keywords contribute, again max not sum.
func (l *lexicon) urgencyScore(norm string, conditions []ConditionMatch) float64 {
	if len(conditions) > 0 {
		max := 0.0
		for _, c := range conditions {
			if c.Severity > max {
				max = c.Severity
			}
		}
		return max
	}
	max := 0.0
	for _, w := range l.urgencyWords {
		if w.score > max && w.re.MatchString(norm) {
			max = w.score
		}
	}
	return max
}

// vitalsScore grades each present vital sign into its derangement tier and
// sums the points. Two deranged vitals scale the sum by 1.2, three or more
// by 1.3, reflecting compound instability.
func vitalsScore(v VitalSigns) float64 {
	var score float64
	abnormal := 0
	add := func(pts float64) {
		score += pts
		abnormal++
	}

	if v.HeartRate != nil {
		hr := *v.HeartRate
		switch {
		case hr < 50 || hr > 120:
			add(30)
		case hr < 60 || hr > 100:
			add(15)
		}
	}
	if v.BloodPressureSys != nil && v.BloodPressureDia != nil {
		sys, dia := *v.BloodPressureSys, *v.BloodPressureDia
		switch {
		case sys < 90 || sys > 180 || dia > 110:
			add(35)
		case sys < 100 || sys > 160 || dia > 90:
			add(20)
		}
	}
	if v.Temperature != nil {
		t := *v.Temperature
		switch {
		case t > 39 || t < 35:
			add(25)
		case t > 38.5 || t < 36:
			add(15)
		}
	}
	if v.OxygenSaturation != nil {
		spo2 := *v.OxygenSaturation
		switch {
		case spo2 < 90:
			add(40)
		case spo2 < 95:
			add(25)
		}
	}
	if v.RespiratoryRate != nil {
		rr := *v.RespiratoryRate
		switch {
		case rr < 8 || rr > 30:
			add(30)
		case rr < 12 || rr > 24:
			add(15)
		}
	}
	if v.GlasgowScore != nil {
		gcs := *v.GlasgowScore
		switch {
		case gcs <= 8:
			add(50)
		case gcs <= 12:
			add(30)
		}
	}

	switch {
	case abnormal >= 3:
		score *= 1.3
	case abnormal == 2:
		score *= 1.2
	}
	return clip(score)
}

// severityScore sums every matched clinical-severity indicator. Functional
// status terms live in the same table; the independent-patient ones carry
// negative points. The sum is clipped to [0,100].
func (l *lexicon) severityScore(norm string) float64 {
	var score float64
	for _, w := range l.severityWords {
		if w.re.MatchString(norm) {
			score += w.score
		}
	}
	return clip(score)
}

// ageScore is nonzero only for risk brackets. The extremes get fixed
// overrides; inside a bracket the base 30 scales by the bracket multiplier.
// The oldest bracket is checked first so 85+ earns its own multiplier.
func ageScore(age *int) float64 {
	if age == nil {
		return 0
	}
	a := *age
	switch {
	case a < 1:
		return 50
	case a > 90:
		return 45
	case a >= 85:
		return 30 * 1.4
	case a >= 75:
		return 30 * 1.2
	case a <= 2:
		return 30 * 1.3
	default:
		return 0
	}
}

// specialtyUrgencyScore maps the inherent acuity of the target specialty to
// 0-100. An undetected specialty scores the medium default.
func (l *lexicon) specialtyUrgencyScore(name Specialty, detected bool) float64 {
	if !detected {
		return 50
	}
	return l.urgencyFor(name) * 100
}

// temporalScore returns the score of the most urgent timing tier mentioned.
func (l *lexicon) temporalScore(norm string) float64 {
	max := 0.0
	for i := range l.temporalTiers {
		t := &l.temporalTiers[i]
		if t.score > max && t.matched(norm) {
			max = t.score
		}
	}
	return max
}

// Weights holds the six factor weights. They must sum to 1.
type Weights struct {
	UrgencyKeywords  float64
	VitalSigns       float64
	ClinicalSeverity float64
	AgeFactor        float64
	SpecialtyUrgency float64
	TemporalUrgency  float64
}

// DefaultWeights mirror the calibration the triage board signed off on.
func DefaultWeights() Weights {
	return Weights{
		UrgencyKeywords:  0.25,
		VitalSigns:       0.20,
		ClinicalSeverity: 0.20,
		AgeFactor:        0.10,
		SpecialtyUrgency: 0.15,
		TemporalUrgency:  0.10,
	}
}

func (w Weights) sum() float64 {
	return w.UrgencyKeywords + w.VitalSigns + w.ClinicalSeverity +
		w.AgeFactor + w.SpecialtyUrgency + w.TemporalUrgency
}

// weightedTotal is the priority score: the weighted sum of the six factors,
// clipped to [0,100].
func weightedTotal(f FactorScores, w Weights) float64 {
	total := f.UrgencyKeywords*w.UrgencyKeywords +
		f.VitalSigns*w.VitalSigns +
		f.ClinicalSeverity*w.ClinicalSeverity +
		f.AgeFactor*w.AgeFactor +
		f.SpecialtyUrgency*w.SpecialtyUrgency +
		f.TemporalUrgency*w.TemporalUrgency
	return clip(total)
}

func clip(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

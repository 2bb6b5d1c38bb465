package referral

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitalred/vitalred/internal/triage"
)

// Case statuses as the review board moves a referral through the queue.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Case maps to the referral_case table. It persists the referral text plus
// everything the engine extracted and scored, so the review queue can be
// rebuilt without reclassifying.
type Case struct {
	ID                uuid.UUID `db:"id" json:"id"`
	RawText           string    `db:"raw_text" json:"raw_text"`
	SenderDomain      *string   `db:"sender_domain" json:"sender_domain,omitempty"`
	SenderInstitution *string   `db:"sender_institution" json:"sender_institution,omitempty"`

	PatientName           *string `db:"patient_name" json:"patient_name,omitempty"`
	PatientAge            *int    `db:"patient_age" json:"patient_age,omitempty"`
	PatientGender         *string `db:"patient_gender" json:"patient_gender,omitempty"`
	PatientIdentification *string `db:"patient_identification" json:"patient_identification,omitempty"`
	PatientPhone          *string `db:"patient_phone" json:"patient_phone,omitempty"`

	HeartRate        *int     `db:"heart_rate" json:"heart_rate,omitempty"`
	RespiratoryRate  *int     `db:"respiratory_rate" json:"respiratory_rate,omitempty"`
	BloodPressureSys *int     `db:"blood_pressure_sys" json:"blood_pressure_sys,omitempty"`
	BloodPressureDia *int     `db:"blood_pressure_dia" json:"blood_pressure_dia,omitempty"`
	Temperature      *float64 `db:"temperature" json:"temperature,omitempty"`
	OxygenSaturation *int     `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	GlasgowScore     *int     `db:"glasgow_score" json:"glasgow_score,omitempty"`

	Specialty           string  `db:"specialty" json:"specialty"`
	SpecialtyConfidence float64 `db:"specialty_confidence" json:"specialty_confidence"`
	ReferralType        string  `db:"referral_type" json:"referral_type"`
	InstitutionName     *string `db:"institution_name" json:"institution_name,omitempty"`
	ReferringDoctor     *string `db:"referring_doctor" json:"referring_doctor,omitempty"`

	UrgencyScore   float64 `db:"urgency_score" json:"urgency_score"`
	VitalsScore    float64 `db:"vitals_score" json:"vitals_score"`
	SeverityScore  float64 `db:"severity_score" json:"severity_score"`
	AgeScore       float64 `db:"age_score" json:"age_score"`
	SpecialtyScore float64 `db:"specialty_score" json:"specialty_score"`
	TemporalScore  float64 `db:"temporal_score" json:"temporal_score"`

	PriorityScore float64  `db:"priority_score" json:"priority_score"`
	PriorityLevel string   `db:"priority_level" json:"priority_level"`
	Confidence    string   `db:"confidence" json:"confidence"`
	Explanations  []string `db:"explanations" json:"explanations,omitempty"`

	Status     string  `db:"status" json:"status"`
	ReviewNote *string `db:"review_note" json:"review_note,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IngestRequest is the ingestion payload: the referral text plus the sender
// hints the mail gateway already knows.
type IngestRequest struct {
	Text              string `json:"text"`
	SenderDomain      string `json:"sender_domain,omitempty"`
	SenderInstitution string `json:"sender_institution,omitempty"`
}

// ReviewRequest updates a case after human review.
type ReviewRequest struct {
	Status        string  `json:"status"`
	PriorityLevel *string `json:"priority_level,omitempty"`
	ReviewNote    *string `json:"review_note,omitempty"`
}

// fromResult copies an engine result into a persistable case.
func fromResult(req IngestRequest, res *triage.Result) *Case {
	c := &Case{
		RawText:               req.Text,
		PatientName:           res.Patient.Name,
		PatientAge:            res.Patient.Age,
		PatientIdentification: res.Patient.Identification,
		PatientPhone:          res.Patient.Phone,
		HeartRate:             res.Vitals.HeartRate,
		RespiratoryRate:       res.Vitals.RespiratoryRate,
		BloodPressureSys:      res.Vitals.BloodPressureSys,
		BloodPressureDia:      res.Vitals.BloodPressureDia,
		Temperature:           res.Vitals.Temperature,
		OxygenSaturation:      res.Vitals.OxygenSaturation,
		GlasgowScore:          res.Vitals.GlasgowScore,
		Specialty:             string(res.Specialty),
		SpecialtyConfidence:   res.SpecialtyConfidence,
		ReferralType:          string(res.ReferralType),
		InstitutionName:       res.Institution.Name,
		ReferringDoctor:       res.Institution.Doctor,
		UrgencyScore:          res.Scores.UrgencyKeywords,
		VitalsScore:           res.Scores.VitalSigns,
		SeverityScore:         res.Scores.ClinicalSeverity,
		AgeScore:              res.Scores.AgeFactor,
		SpecialtyScore:        res.Scores.SpecialtyUrgency,
		TemporalScore:         res.Scores.TemporalUrgency,
		PriorityScore:         res.Verdict.Score,
		PriorityLevel:         string(res.Verdict.Level),
		Confidence:            string(res.Verdict.Confidence),
		Explanations:          res.Verdict.Explanations,
		Status:                StatusPending,
	}
	if res.Patient.Gender != "" {
		g := string(res.Patient.Gender)
		c.PatientGender = &g
	}
	if req.SenderDomain != "" {
		d := req.SenderDomain
		c.SenderDomain = &d
	}
	if req.SenderInstitution != "" {
		i := req.SenderInstitution
		c.SenderInstitution = &i
	}
	return c
}

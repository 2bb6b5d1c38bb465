package triage

import "time"

// Priority is the discrete triage priority handed to the case-management
// backend. Values are the Spanish labels the downstream system stores.
type Priority string

const (
	PriorityHigh   Priority = "Alta"
	PriorityMedium Priority = "Media"
	PriorityLow    Priority = "Baja"
)

// Confidence is the evidentiary-breadth tier of a classification: how many
// independent data points supported the verdict, not statistical certainty.
type Confidence string

const (
	ConfidenceHigh   Confidence = "Alta"
	ConfidenceMedium Confidence = "Media"
	ConfidenceLow    Confidence = "Baja"
)

// Gender as declared in the referral text.
type Gender string

const (
	GenderMasculine Gender = "masculino"
	GenderFeminine  Gender = "femenino"
)

// Specialty is a canonical clinical specialty name.
type Specialty string

const (
	SpecialtyCardiology      Specialty = "Cardiología"
	SpecialtyNeurology       Specialty = "Neurología"
	SpecialtySurgery         Specialty = "Cirugía"
	SpecialtyInternal        Specialty = "Medicina Interna"
	SpecialtyPediatrics      Specialty = "Pediatría"
	SpecialtyGynecology      Specialty = "Ginecología"
	SpecialtyOrthopedics     Specialty = "Ortopedia"
	SpecialtyDermatology     Specialty = "Dermatología"
	SpecialtyOphthalmology   Specialty = "Oftalmología"
	SpecialtyENT             Specialty = "Otorrinolaringología"
	SpecialtyUrology         Specialty = "Urología"
	SpecialtyPulmonology     Specialty = "Neumología"
	SpecialtyGastro          Specialty = "Gastroenterología"
	SpecialtyEndocrinology   Specialty = "Endocrinología"
	SpecialtyRheumatology    Specialty = "Reumatología"
	SpecialtyHematology      Specialty = "Hematología"
	SpecialtyInfectiology    Specialty = "Infectología"
	SpecialtyNephrology      Specialty = "Nefrología"
	SpecialtyOncology        Specialty = "Oncología"
	SpecialtyPsychiatry      Specialty = "Psiquiatría"
	SpecialtyAnesthesiology  Specialty = "Anestesiología"
	SpecialtyRadiology       Specialty = "Radiología"
	SpecialtyPathology       Specialty = "Patología"
	SpecialtyGeriatrics      Specialty = "Geriatría"
	SpecialtyGeneralMedicine Specialty = "Medicina General"
)

// ConditionCategory names a critical-condition pattern group.
type ConditionCategory string

const (
	ConditionCardiovascular   ConditionCategory = "cardiovascular"
	ConditionNeurological     ConditionCategory = "neurological"
	ConditionRespiratory      ConditionCategory = "respiratory"
	ConditionTrauma           ConditionCategory = "trauma"
	ConditionGastrointestinal ConditionCategory = "gastrointestinal"
	ConditionInfectious       ConditionCategory = "infectious"
)

// ReferralType is the kind of attention the referral requests.
type ReferralType string

const (
	ReferralConsultation    ReferralType = "consulta"
	ReferralEmergency       ReferralType = "urgencia"
	ReferralSurgery         ReferralType = "cirugia"
	ReferralHospitalization ReferralType = "hospitalizacion"
)

// PatientProfile holds demographics extracted from the referral text. A nil
// field means no candidate pattern produced a valid value.
type PatientProfile struct {
	Name           *string `json:"name,omitempty"`
	Age            *int    `json:"age,omitempty"`
	Gender         Gender  `json:"gender,omitempty"`
	Identification *string `json:"identification,omitempty"`
	Phone          *string `json:"phone,omitempty"`
}

// VitalSigns holds the numeric vital signs extracted from the text. Values
// outside their physiologic range are never stored; the field stays nil.
// Systolic and diastolic pressure are extracted as a pair: both or neither.
type VitalSigns struct {
	HeartRate        *int     `json:"heart_rate,omitempty"`
	RespiratoryRate  *int     `json:"respiratory_rate,omitempty"`
	BloodPressureSys *int     `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDia *int     `json:"blood_pressure_diastolic,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	OxygenSaturation *int     `json:"oxygen_saturation,omitempty"`
	GlasgowScore     *int     `json:"glasgow_score,omitempty"`
}

// ConditionMatch records one matched critical-condition category and the
// fixed severity score that category carries.
type ConditionMatch struct {
	Category ConditionCategory `json:"category"`
	Severity float64           `json:"severity"`
}

// FactorScores are the six independent urgency contributors, each bounded to
// [0,100] before weighting.
type FactorScores struct {
	UrgencyKeywords  float64 `json:"urgency_keywords"`
	VitalSigns       float64 `json:"vital_signs"`
	ClinicalSeverity float64 `json:"clinical_severity"`
	AgeFactor        float64 `json:"age_factor"`
	SpecialtyUrgency float64 `json:"specialty_urgency"`
	TemporalUrgency  float64 `json:"temporal_urgency"`
}

// Verdict is the final output of the scoring engine.
type Verdict struct {
	Score        float64    `json:"score"`
	Level        Priority   `json:"level"`
	Confidence   Confidence `json:"confidence"`
	Explanations []string   `json:"explanations"`
}

// Institution identifies the referring institution and doctor, when stated.
type Institution struct {
	Name   *string `json:"name,omitempty"`
	Doctor *string `json:"doctor,omitempty"`
}

// Metadata carries sender hints supplied by the ingestion layer. They are
// secondary confidence signals only and never feed the score.
type Metadata struct {
	SenderDomain string `json:"sender_domain,omitempty"`
	Institution  string `json:"institution,omitempty"`
}

// Result is the full structured record produced by one classification call.
// It is a value created and consumed within that call; the engine keeps no
// reference to it.
type Result struct {
	Patient             PatientProfile   `json:"patient"`
	Vitals              VitalSigns       `json:"vital_signs"`
	Specialty           Specialty        `json:"specialty"`
	SpecialtyConfidence float64          `json:"specialty_confidence"`
	SpecialtyDetected   bool             `json:"specialty_detected"`
	Conditions          []ConditionMatch `json:"conditions,omitempty"`
	Scores              FactorScores     `json:"scores"`
	Verdict             Verdict          `json:"verdict"`
	ReferralType        ReferralType     `json:"referral_type"`
	Institution         Institution      `json:"institution"`
	Error               string           `json:"error,omitempty"`
	ClassifiedAt        time.Time        `json:"classified_at"`
}

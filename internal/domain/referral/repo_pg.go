package referral

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vitalred/vitalred/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const caseCols = `id, raw_text, sender_domain, sender_institution,
	patient_name, patient_age, patient_gender, patient_identification, patient_phone,
	heart_rate, respiratory_rate, blood_pressure_sys, blood_pressure_dia,
	temperature, oxygen_saturation, glasgow_score,
	specialty, specialty_confidence, referral_type, institution_name, referring_doctor,
	urgency_score, vitals_score, severity_score, age_score, specialty_score, temporal_score,
	priority_score, priority_level, confidence, explanations,
	status, review_note, created_at, updated_at`

func (r *repoPG) scanCase(row pgx.Row) (*Case, error) {
	var c Case
	err := row.Scan(&c.ID, &c.RawText, &c.SenderDomain, &c.SenderInstitution,
		&c.PatientName, &c.PatientAge, &c.PatientGender, &c.PatientIdentification, &c.PatientPhone,
		&c.HeartRate, &c.RespiratoryRate, &c.BloodPressureSys, &c.BloodPressureDia,
		&c.Temperature, &c.OxygenSaturation, &c.GlasgowScore,
		&c.Specialty, &c.SpecialtyConfidence, &c.ReferralType, &c.InstitutionName, &c.ReferringDoctor,
		&c.UrgencyScore, &c.VitalsScore, &c.SeverityScore, &c.AgeScore, &c.SpecialtyScore, &c.TemporalScore,
		&c.PriorityScore, &c.PriorityLevel, &c.Confidence, &c.Explanations,
		&c.Status, &c.ReviewNote, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *repoPG) Create(ctx context.Context, c *Case) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO referral_case (id, raw_text, sender_domain, sender_institution,
			patient_name, patient_age, patient_gender, patient_identification, patient_phone,
			heart_rate, respiratory_rate, blood_pressure_sys, blood_pressure_dia,
			temperature, oxygen_saturation, glasgow_score,
			specialty, specialty_confidence, referral_type, institution_name, referring_doctor,
			urgency_score, vitals_score, severity_score, age_score, specialty_score, temporal_score,
			priority_score, priority_level, confidence, explanations, status, review_note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,
			$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33)`,
		c.ID, c.RawText, c.SenderDomain, c.SenderInstitution,
		c.PatientName, c.PatientAge, c.PatientGender, c.PatientIdentification, c.PatientPhone,
		c.HeartRate, c.RespiratoryRate, c.BloodPressureSys, c.BloodPressureDia,
		c.Temperature, c.OxygenSaturation, c.GlasgowScore,
		c.Specialty, c.SpecialtyConfidence, c.ReferralType, c.InstitutionName, c.ReferringDoctor,
		c.UrgencyScore, c.VitalsScore, c.SeverityScore, c.AgeScore, c.SpecialtyScore, c.TemporalScore,
		c.PriorityScore, c.PriorityLevel, c.Confidence, c.Explanations, c.Status, c.ReviewNote)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Case, error) {
	return r.scanCase(r.conn(ctx).QueryRow(ctx, `SELECT `+caseCols+` FROM referral_case WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, c *Case) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE referral_case SET status=$2, priority_level=$3, review_note=$4, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Status, c.PriorityLevel, c.ReviewNote)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM referral_case WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Case, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM referral_case`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+caseCols+` FROM referral_case ORDER BY priority_score DESC, created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Case
	for rows.Next() {
		c, err := r.scanCase(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

func (r *repoPG) ListByLevel(ctx context.Context, level string, limit, offset int) ([]*Case, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM referral_case WHERE priority_level = $1`, level).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+caseCols+` FROM referral_case WHERE priority_level = $1 ORDER BY priority_score DESC, created_at DESC LIMIT $2 OFFSET $3`, level, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Case
	for rows.Next() {
		c, err := r.scanCase(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Case, int, error) {
	query := `SELECT ` + caseCols + ` FROM referral_case WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM referral_case WHERE 1=1`
	var args []interface{}
	idx := 1

	if p, ok := params["priority_level"]; ok {
		query += fmt.Sprintf(` AND priority_level = $%d`, idx)
		countQuery += fmt.Sprintf(` AND priority_level = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["specialty"]; ok {
		query += fmt.Sprintf(` AND specialty = $%d`, idx)
		countQuery += fmt.Sprintf(` AND specialty = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["status"]; ok {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, p)
		idx++
	}
	if p, ok := params["referral_type"]; ok {
		query += fmt.Sprintf(` AND referral_type = $%d`, idx)
		countQuery += fmt.Sprintf(` AND referral_type = $%d`, idx)
		args = append(args, p)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY priority_score DESC, created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Case
	for rows.Next() {
		c, err := r.scanCase(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

func (r *repoPG) CountByLevel(ctx context.Context) (map[string]int, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT priority_level, COUNT(*) FROM referral_case GROUP BY priority_level`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var level string
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		counts[level] = n
	}
	return counts, nil
}

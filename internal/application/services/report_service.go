package services

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/upravdom/resident-portal/internal/domain/repositories"
	apperrors "github.com/upravdom/resident-portal/pkg/errors"
)

// ComplaintReportRow is one complaint joined with its resident for
// administrative reporting
type ComplaintReportRow struct {
	ID           string     `db:"id" json:"id"`
	Title        string     `db:"title" json:"title"`
	Category     string     `db:"category" json:"category"`
	Priority     string     `db:"priority" json:"priority"`
	Status       string     `db:"status" json:"status"`
	ResidentName string     `db:"resident_name" json:"resident_name"`
	Street       string     `db:"street" json:"street"`
	Building     string     `db:"building" json:"building"`
	Apartment    string     `db:"apartment" json:"apartment"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt   *time.Time `db:"actual_completion" json:"resolved_at,omitempty"`
}

// ReadingReportRow is one meter reading joined with its resident
type ReadingReportRow struct {
	ID           string    `db:"id" json:"id"`
	MeterType    string    `db:"meter_type" json:"meter_type"`
	Value        float64   `db:"value" json:"value"`
	Consumption  *float64  `db:"consumption" json:"consumption,omitempty"`
	IsVerified   bool      `db:"is_verified" json:"is_verified"`
	ResidentName string    `db:"resident_name" json:"resident_name"`
	Street       string    `db:"street" json:"street"`
	Building     string    `db:"building" json:"building"`
	Apartment    string    `db:"apartment" json:"apartment"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserReportRow is one resident with activity counts attached
type UserReportRow struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Username       string    `db:"username" json:"username"`
	Street         string    `db:"street" json:"street"`
	Building       string    `db:"building" json:"building"`
	Apartment      string    `db:"apartment" json:"apartment"`
	Phone          string    `db:"phone" json:"phone"`
	IsAdmin        bool      `db:"is_admin" json:"is_admin"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	ReadingCount   int       `db:"reading_count" json:"reading_count"`
	ComplaintCount int       `db:"complaint_count" json:"complaint_count"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// BuildingRow is one distinct street/building pair with its resident count
type BuildingRow struct {
	Street        string `db:"street" json:"street"`
	Building      string `db:"building" json:"building"`
	ResidentCount int    `db:"resident_count" json:"resident_count"`
}

// UserStats summarizes one resident's activity
type UserStats struct {
	ReadingCount       int        `db:"reading_count" json:"reading_count"`
	ComplaintCount     int        `db:"complaint_count" json:"complaint_count"`
	OpenComplaintCount int        `db:"open_complaint_count" json:"open_complaint_count"`
	LastReadingAt      *time.Time `db:"last_reading_at" json:"last_reading_at,omitempty"`
}

// AdminStats is the administrative dashboard summary
type AdminStats struct {
	TotalUsers        int `db:"total_users" json:"total_users"`
	ActiveUsers       int `db:"active_users" json:"active_users"`
	TotalReadings     int `db:"total_readings" json:"total_readings"`
	ReadingsThisMonth int `db:"readings_this_month" json:"readings_this_month"`
	TotalComplaints   int `db:"total_complaints" json:"total_complaints"`
	OpenComplaints    int `db:"open_complaints" json:"open_complaints"`
}

// TelegramStats reports messaging coverage and recent volume
type TelegramStats struct {
	ActiveRecipients      int `db:"active_recipients" json:"active_recipients"`
	NotificationsLastWeek int `json:"notifications_last_week"`
	NotificationsTotal    int `json:"notifications_total"`
}

// ReportService builds cross-entity projections with read-only joins.
// Writes stay behind the repositories; reporting reads go straight to SQL.
type ReportService struct {
	db        *sqlx.DB
	notifRepo repositories.NotificationRepository
}

// NewReportService creates a new report service
func NewReportService(db *sqlx.DB, notifRepo repositories.NotificationRepository) *ReportService {
	return &ReportService{db: db, notifRepo: notifRepo}
}

const complaintReportQuery = `
SELECT c.id, c.title, c.category, c.priority, c.status,
       TRIM(u.first_name || ' ' || COALESCE(u.last_name, '')) AS resident_name,
       COALESCE(u.street, '') AS street,
       COALESCE(u.building, '') AS building,
       COALESCE(u.apartment, '') AS apartment,
       c.created_at, c.actual_completion
FROM complaints c
JOIN users u ON u.id = c.user_id
ORDER BY c.created_at DESC`

const readingReportQuery = `
SELECT r.id, r.meter_type, r.value, r.consumption, r.is_verified,
       TRIM(u.first_name || ' ' || COALESCE(u.last_name, '')) AS resident_name,
       COALESCE(u.street, '') AS street,
       COALESCE(u.building, '') AS building,
       COALESCE(u.apartment, '') AS apartment,
       r.created_at
FROM meter_readings r
JOIN users u ON u.id = r.user_id
ORDER BY r.created_at DESC`

const userReportQuery = `
SELECT u.id,
       TRIM(u.first_name || ' ' || COALESCE(u.last_name, '')) AS name,
       COALESCE(u.username, '') AS username,
       COALESCE(u.street, '') AS street,
       COALESCE(u.building, '') AS building,
       COALESCE(u.apartment, '') AS apartment,
       COALESCE(u.phone, '') AS phone,
       u.is_admin, u.is_active, u.created_at,
       (SELECT COUNT(*) FROM meter_readings r WHERE r.user_id = u.id) AS reading_count,
       (SELECT COUNT(*) FROM complaints c WHERE c.user_id = u.id) AS complaint_count
FROM users u
ORDER BY u.created_at DESC`

const buildingsQuery = `
SELECT COALESCE(street, '') AS street, COALESCE(building, '') AS building,
       COUNT(*) AS resident_count
FROM users
WHERE is_active AND COALESCE(building, '') <> ''
GROUP BY street, building
ORDER BY street, building`

// ComplaintReport returns every complaint with its resident attached
func (s *ReportService) ComplaintReport(ctx context.Context) ([]ComplaintReportRow, error) {
	rows := []ComplaintReportRow{}
	if err := s.db.SelectContext(ctx, &rows, complaintReportQuery); err != nil {
		return nil, apperrors.NewInternalError("failed to build complaint report", err)
	}
	return rows, nil
}

// ReadingReport returns every meter reading with its resident attached
func (s *ReportService) ReadingReport(ctx context.Context) ([]ReadingReportRow, error) {
	rows := []ReadingReportRow{}
	if err := s.db.SelectContext(ctx, &rows, readingReportQuery); err != nil {
		return nil, apperrors.NewInternalError("failed to build reading report", err)
	}
	return rows, nil
}

// UserReport returns every account with activity counts attached
func (s *ReportService) UserReport(ctx context.Context) ([]UserReportRow, error) {
	rows := []UserReportRow{}
	if err := s.db.SelectContext(ctx, &rows, userReportQuery); err != nil {
		return nil, apperrors.NewInternalError("failed to build user report", err)
	}
	return rows, nil
}

// Buildings returns the distinct street/building pairs with residents
func (s *ReportService) Buildings(ctx context.Context) ([]BuildingRow, error) {
	rows := []BuildingRow{}
	if err := s.db.SelectContext(ctx, &rows, buildingsQuery); err != nil {
		return nil, apperrors.NewInternalError("failed to list buildings", err)
	}
	return rows, nil
}

// StatsForUser summarizes one resident's activity
func (s *ReportService) StatsForUser(ctx context.Context, userID string) (*UserStats, error) {
	stats := &UserStats{}

	const query = `
SELECT
    (SELECT COUNT(*) FROM meter_readings WHERE user_id = $1) AS reading_count,
    (SELECT COUNT(*) FROM complaints WHERE user_id = $1) AS complaint_count,
    (SELECT COUNT(*) FROM complaints
         WHERE user_id = $1 AND status IN ('new', 'in_progress')) AS open_complaint_count,
    (SELECT MAX(created_at) FROM meter_readings WHERE user_id = $1) AS last_reading_at`
	if err := s.db.GetContext(ctx, stats, query, userID); err != nil {
		return nil, apperrors.NewInternalError("failed to compute user stats", err)
	}

	return stats, nil
}

// Stats builds the administrative dashboard summary
func (s *ReportService) Stats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}

	const query = `
SELECT
    (SELECT COUNT(*) FROM users) AS total_users,
    (SELECT COUNT(*) FROM users WHERE is_active) AS active_users,
    (SELECT COUNT(*) FROM meter_readings) AS total_readings,
    (SELECT COUNT(*) FROM meter_readings
         WHERE created_at >= date_trunc('month', now())) AS readings_this_month,
    (SELECT COUNT(*) FROM complaints) AS total_complaints,
    (SELECT COUNT(*) FROM complaints
         WHERE status IN ('new', 'in_progress')) AS open_complaints`
	if err := s.db.GetContext(ctx, stats, query); err != nil {
		return nil, apperrors.NewInternalError("failed to compute admin stats", err)
	}

	return stats, nil
}

// MessagingStats reports gateway coverage and recent notification volume
func (s *ReportService) MessagingStats(ctx context.Context) (*TelegramStats, error) {
	stats := &TelegramStats{}

	const query = `
SELECT COUNT(*) AS active_recipients
FROM users
WHERE is_active AND telegram_id <> ''`
	if err := s.db.GetContext(ctx, stats, query); err != nil {
		return nil, apperrors.NewInternalError("failed to compute messaging stats", err)
	}

	lastWeek, err := s.notifRepo.CountSince(ctx, time.Now().UTC().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	stats.NotificationsLastWeek = lastWeek

	total, err := s.notifRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.NotificationsTotal = total

	return stats, nil
}

// ExportCSV streams the named report as CSV. kind is one of complaints,
// readings, users or all.
func (s *ReportService) ExportCSV(ctx context.Context, kind string, w io.Writer) error {
	switch kind {
	case "complaints":
		return s.exportComplaints(ctx, w)
	case "readings":
		return s.exportReadings(ctx, w)
	case "users":
		return s.exportUsers(ctx, w)
	case "all":
		if err := s.exportUsers(ctx, w); err != nil {
			return err
		}
		if err := s.exportReadings(ctx, w); err != nil {
			return err
		}
		return s.exportComplaints(ctx, w)
	default:
		return apperrors.NewValidationError("unknown export type: " + kind)
	}
}

func (s *ReportService) exportComplaints(ctx context.Context, w io.Writer) error {
	rows, err := s.ComplaintReport(ctx)
	if err != nil {
		return err
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"id", "title", "category", "priority", "status",
		"resident", "street", "building", "apartment", "created_at", "resolved_at"})
	for _, r := range rows {
		resolved := ""
		if r.ResolvedAt != nil {
			resolved = r.ResolvedAt.Format(time.RFC3339)
		}
		records = append(records, []string{
			r.ID, r.Title, r.Category, r.Priority, r.Status,
			r.ResidentName, r.Street, r.Building, r.Apartment,
			r.CreatedAt.Format(time.RFC3339), resolved,
		})
	}

	return writeCSV(w, records)
}

func (s *ReportService) exportReadings(ctx context.Context, w io.Writer) error {
	rows, err := s.ReadingReport(ctx)
	if err != nil {
		return err
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"id", "meter_type", "value", "consumption",
		"verified", "resident", "street", "building", "apartment", "created_at"})
	for _, r := range rows {
		consumption := ""
		if r.Consumption != nil {
			consumption = strconv.FormatFloat(*r.Consumption, 'f', -1, 64)
		}
		records = append(records, []string{
			r.ID, r.MeterType,
			strconv.FormatFloat(r.Value, 'f', -1, 64),
			consumption,
			strconv.FormatBool(r.IsVerified),
			r.ResidentName, r.Street, r.Building, r.Apartment,
			r.CreatedAt.Format(time.RFC3339),
		})
	}

	return writeCSV(w, records)
}

func (s *ReportService) exportUsers(ctx context.Context, w io.Writer) error {
	rows, err := s.UserReport(ctx)
	if err != nil {
		return err
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"id", "name", "username", "street", "building",
		"apartment", "phone", "admin", "active", "readings", "complaints", "created_at"})
	for _, r := range rows {
		records = append(records, []string{
			r.ID, r.Name, r.Username, r.Street, r.Building, r.Apartment, r.Phone,
			strconv.FormatBool(r.IsAdmin),
			strconv.FormatBool(r.IsActive),
			strconv.Itoa(r.ReadingCount),
			strconv.Itoa(r.ComplaintCount),
			r.CreatedAt.Format(time.RFC3339),
		})
	}

	return writeCSV(w, records)
}

func writeCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return apperrors.NewInternalError("failed to write csv", err)
	}
	return nil
}

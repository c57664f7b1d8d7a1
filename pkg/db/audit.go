package db

import (
	"time"
)

// Audit actions.
const (
	ActionTranslate = "TRANSLATE"
	ActionFailed    = "TRANSLATE_FAILED"
	ActionClear     = "CLEAR"
	ActionCopy      = "COPY"
	ActionCancel    = "CANCEL"
	ActionCatalog   = "CATALOG"
)

type AuditEntry struct {
	ID           int
	Timestamp    time.Time
	Action       string
	TargetLang   string
	Details      string
	RequestText  string
	ResponseText string
}

// RecordAudit is a no-op when the database is not initialized.
func RecordAudit(entry AuditEntry) error {
	mu.RLock()
	defer mu.RUnlock()
	if conn == nil {
		return nil
	}

	query := `INSERT INTO audit_logs (timestamp, action, target_lang, details, request_text, response_text) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := conn.Exec(query, time.Now().UTC(), entry.Action, entry.TargetLang, entry.Details, entry.RequestText, entry.ResponseText)
	return err
}

// GetAuditLogs returns up to limit entries, newest first.
func GetAuditLogs(limit int) ([]AuditEntry, error) {
	mu.RLock()
	defer mu.RUnlock()
	if conn == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := conn.Query(`SELECT id, timestamp, action, target_lang, details, request_text, response_text
		FROM audit_logs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Action, &e.TargetLang, &e.Details, &e.RequestText, &e.ResponseText); err != nil {
			return nil, err
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}

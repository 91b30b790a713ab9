package sqlite

import (
	"context"
	"database/sql"
)

// LIDResolver maps WhatsApp linked-device ids to phone numbers using the
// whatsmeow_lid_map table that whatsmeow's sqlstore keeps in the same database.
type LIDResolver struct {
	db *sql.DB
}

func NewLIDResolver(db *sql.DB) *LIDResolver {
	return &LIDResolver{db: db}
}

// ResolveLIDToPhone returns the phone number for lid, or lid itself when no mapping exists.
func (r *LIDResolver) ResolveLIDToPhone(ctx context.Context, lid string) string {
	var pn string
	err := r.db.QueryRowContext(ctx, `SELECT pn FROM whatsmeow_lid_map WHERE lid = ?`, lid).Scan(&pn)
	if err != nil || pn == "" {
		return lid
	}
	return pn
}

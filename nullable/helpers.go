package nullable

import (
	"database/sql"
	"time"
)

func IntFrom(v int64) Int {
	return Int{NullInt64: sql.NullInt64{Int64: v, Valid: true}}
}

func StringFrom(v string) String {
	return String{NullString: sql.NullString{String: v, Valid: true}}
}

func TimeFrom(v time.Time) Time {
	return Time{NullTime: sql.NullTime{Time: v, Valid: true}}
}

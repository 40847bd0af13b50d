// Package adapters hides the differences between pgxpool.Pool, sql.DB and sqlx.DB behind DBAdapter.
//
// The engines build fully interpolated SQL with goqu, so the adapters only need Query and Exec.
package adapters

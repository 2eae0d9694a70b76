package postgres

const InsertAction = `INSERT INTO pending_actions ("url", "method", "headers", "data", "created_date") VALUES (
  $1,
  $2,
  $3,
  $4,
  $5
) RETURNING "id";`

const (
	ListActions  = `SELECT id, url, method, headers, data, created_date FROM pending_actions ORDER BY id ASC;`
	DeleteAction = `DELETE FROM pending_actions WHERE id = $1;`

	InsertStagedFile = `INSERT INTO staged_files ("id", "name", "content_type", "size", "content", "created_date")
VALUES ($1, $2, $3, $4, $5, $6);`
	GetStagedFile    = `SELECT id, name, content_type, size, content, created_date FROM staged_files WHERE id = $1;`
	DeleteStagedFile = `DELETE FROM staged_files WHERE id = $1;`
	SweepStagedFiles = `DELETE FROM staged_files WHERE created_date < $1;`
)
